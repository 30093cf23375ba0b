package mdbook

// Notes:
// - mdBook has shipped both framings of the handshake over time: two
//   bare JSON values and a single [context, book] array. Both parse.

import (
	"errors"
	"strings"
	"testing"
)

const testCtx = `{
	"root": "/work/book",
	"config": {
		"book": {"src": "src", "title": "Test Book"},
		"preprocessor": {"jupyter": {"embed_images": true, "assets_dir": "assets"}}
	},
	"renderer": "html",
	"mdbook_version": "0.4.21"
}`

const testBook = `{"sections": [], "__non_exhaustive": null}`

// ---------------------------------------------------------------------------
// TestParseInput - handshake framings and field extraction
// ---------------------------------------------------------------------------

func TestParseInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "two newline-delimited values", input: testCtx + "\n" + testBook},
		{name: "two space-delimited values", input: testCtx + " " + testBook},
		{name: "single array pair", input: "[" + testCtx + "," + testBook + "]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, book, err := ParseInput(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseInput() error = %v", err)
			}
			if ctx.Root != "/work/book" {
				t.Errorf("Root = %q", ctx.Root)
			}
			if ctx.Renderer != "html" {
				t.Errorf("Renderer = %q", ctx.Renderer)
			}
			if ctx.MdBookVersion != "0.4.21" {
				t.Errorf("MdBookVersion = %q", ctx.MdBookVersion)
			}
			if ctx.SrcDir != "src" {
				t.Errorf("SrcDir = %q", ctx.SrcDir)
			}
			if book == nil || len(book.Bytes()) == 0 {
				t.Error("book payload missing")
			}
		})
	}
}

func TestParseInput_Defaults(t *testing.T) {
	t.Parallel()

	input := `{"root": "/b", "renderer": "html", "mdbook_version": "0.4.0"} {"sections": []}`
	ctx, _, err := ParseInput(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseInput() error = %v", err)
	}
	if ctx.SrcDir != "src" {
		t.Errorf("SrcDir = %q, want default %q", ctx.SrcDir, "src")
	}
	if cfg := ctx.PreprocessorConfig("jupyter"); cfg.Exists() {
		t.Errorf("PreprocessorConfig() = %v, want missing", cfg)
	}
}

func TestParseInput_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "invalid json", input: "{nope"},
		{name: "context only", input: testCtx},
		{name: "context not an object", input: `"hello" {}`},
		{name: "book not an object", input: `{} ["a", "b"]`},
		{name: "array with wrong arity", input: "[" + testCtx + "]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ParseInput(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("ParseInput() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPreprocessorConfig - option table extraction
// ---------------------------------------------------------------------------

func TestPreprocessorConfig(t *testing.T) {
	t.Parallel()

	ctx, _, err := ParseInput(strings.NewReader(testCtx + "\n" + testBook))
	if err != nil {
		t.Fatalf("ParseInput() error = %v", err)
	}

	cfg := ctx.PreprocessorConfig("jupyter")
	if !cfg.Get("embed_images").Bool() {
		t.Error("embed_images = false, want true")
	}
	if got := cfg.Get("assets_dir").String(); got != "assets" {
		t.Errorf("assets_dir = %q, want %q", got, "assets")
	}
}

// ---------------------------------------------------------------------------
// TestCheckVersion - host compatibility gate
// ---------------------------------------------------------------------------

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "same version", version: HostVersion, wantErr: false},
		{name: "same minor newer patch", version: "0.4.40", wantErr: false},
		{name: "prerelease of same minor", version: "0.4.22-alpha.1", wantErr: false},
		{name: "older minor", version: "0.3.9", wantErr: true},
		{name: "newer major", version: "1.0.0", wantErr: true},
		{name: "garbage", version: "not-a-version", wantErr: true},
		{name: "empty", version: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := &Context{MdBookVersion: tt.version}
			err := ctx.CheckVersion()
			if tt.wantErr && !errors.Is(err, ErrIncompatibleVersion) {
				t.Errorf("CheckVersion() error = %v, want ErrIncompatibleVersion", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("CheckVersion() error = %v, want nil", err)
			}
		})
	}
}
