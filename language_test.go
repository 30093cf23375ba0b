package jupyter

import "testing"

// ---------------------------------------------------------------------------
// TestFenceLanguage - kernel name normalization
// ---------------------------------------------------------------------------

func TestFenceLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty falls back", in: "", want: "python"},
		{name: "canonical python", in: "python", want: "python"},
		{name: "python3 kernel alias", in: "python3", want: "python"},
		{name: "capitalized", in: "Python", want: "python"},
		{name: "julia", in: "julia", want: "julia"},
		{name: "unknown language sanitized", in: "MyLang v2!", want: "mylangv2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fenceLanguage(tt.in); got != tt.want {
				t.Errorf("fenceLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
