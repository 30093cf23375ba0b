package jupyter

// Notes:
// - Rendering must never fail for bad payloads: unknown MIME bundles
//   drop silently and undecodable images degrade to a placeholder.
// - Asset-write behavior is covered in images_test.go; these tests run
//   with embedding enabled or with outputs that touch no files.

import (
	"strings"
	"testing"
)

func testContext(opts Options) *RenderContext {
	rc := NewRenderContext("nb.ipynb", "nb.ipynb", opts)
	rc.language = "python"
	return rc
}

// ---------------------------------------------------------------------------
// TestRenderOutput_Stream - fenced blocks tagged by stream name
// ---------------------------------------------------------------------------

func TestRenderOutput_Stream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  Output
		want string
	}{
		{
			name: "stdout",
			out:  Output{Kind: OutputStream, StreamName: "stdout", Text: "1\n"},
			want: "```stdout\n1\n```",
		},
		{
			name: "stderr",
			out:  Output{Kind: OutputStream, StreamName: "stderr", Text: "warning"},
			want: "```stderr\nwarning\n```",
		},
		{
			name: "crlf preserved",
			out:  Output{Kind: OutputStream, StreamName: "stdout", Text: "a\r\nb\r\n"},
			want: "```stdout\na\r\nb\r\n```",
		},
		{
			name: "blank lines preserved",
			out:  Output{Kind: OutputStream, StreamName: "stdout", Text: "a\n\n\nb\n"},
			want: "```stdout\na\n\n\nb\n```",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := renderOutput(tt.out, testContext(Options{}))
			if err != nil {
				t.Fatalf("renderOutput() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("renderOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderOutput_Error - ANSI-stripped tracebacks
// ---------------------------------------------------------------------------

func TestRenderOutput_Error(t *testing.T) {
	t.Parallel()

	out := Output{
		Kind:   OutputError,
		EName:  "ZeroDivisionError",
		EValue: "division by zero",
		Traceback: []string{
			"\x1b[0;31m---------------------------------\x1b[0m",
			"",
			"\x1b[0;32m<ipython-input>\x1b[0m in \x1b[0;36m<module>\x1b[0m",
		},
	}

	got, err := renderOutput(out, testContext(Options{}))
	if err != nil {
		t.Fatalf("renderOutput() error = %v", err)
	}

	want := "```error\n" +
		"ZeroDivisionError: division by zero\n" +
		"---------------------------------\n" +
		"\n" +
		"<ipython-input> in <module>\n" +
		"```"
	if got != want {
		t.Errorf("renderOutput() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestRenderOutput_MimePriority - richest representation wins
// ---------------------------------------------------------------------------

func TestRenderOutput_MimePriority(t *testing.T) {
	t.Parallel()

	pngB64 := "iVBORw0KGgo="

	tests := []struct {
		name        string
		data        map[string]string
		wantContain string
		wantAbsent  string
	}{
		{
			name: "image beats plain text",
			data: map[string]string{
				"image/png":  pngB64,
				"text/plain": "<Figure size 640x480>",
			},
			wantContain: "![png](data:image/png;base64,",
			wantAbsent:  "Figure size",
		},
		{
			name: "html beats markdown",
			data: map[string]string{
				"text/html":     "<table><tr><td>1</td></tr></table>",
				"text/markdown": "| 1 |",
				"text/plain":    "1",
			},
			wantContain: "<table>",
			wantAbsent:  "| 1 |",
		},
		{
			name: "markdown beats plain",
			data: map[string]string{
				"text/markdown": "**bold**",
				"text/plain":    "bold",
			},
			wantContain: "**bold**",
			wantAbsent:  "```",
		},
		{
			name: "plain text is fenced",
			data: map[string]string{
				"text/plain": "42",
			},
			wantContain: "```\n42\n```",
		},
		{
			name: "unlisted image type still beats html",
			data: map[string]string{
				"image/tiff": "AAAA",
				"text/html":  "<p>hi</p>",
			},
			wantContain: "![tiff](",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Output{Kind: OutputDisplayData, Data: tt.data}
			got, err := renderOutput(out, testContext(Options{EmbedImages: true}))
			if err != nil {
				t.Fatalf("renderOutput() error = %v", err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("renderOutput() = %q, want substring %q", got, tt.wantContain)
			}
			if tt.wantAbsent != "" && strings.Contains(got, tt.wantAbsent) {
				t.Errorf("renderOutput() = %q, must not contain %q", got, tt.wantAbsent)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderOutput_Degraded - unknown and broken payloads never fail
// ---------------------------------------------------------------------------

func TestRenderOutput_Degraded(t *testing.T) {
	t.Parallel()

	t.Run("only unsupported representations", func(t *testing.T) {
		t.Parallel()

		out := Output{Kind: OutputExecuteResult, Data: map[string]string{
			"application/vnd.vegalite.v4+json": "{}",
		}}
		got, err := renderOutput(out, testContext(Options{}))
		if err != nil {
			t.Fatalf("renderOutput() error = %v", err)
		}
		if got != "" {
			t.Errorf("renderOutput() = %q, want empty fragment", got)
		}
	})

	t.Run("invalid base64 degrades to placeholder", func(t *testing.T) {
		t.Parallel()

		out := Output{Kind: OutputDisplayData, Data: map[string]string{
			"image/png": "!!! not base64 !!!",
		}}
		got, err := renderOutput(out, testContext(Options{}))
		if err != nil {
			t.Fatalf("renderOutput() error = %v", err)
		}
		if got != placeholderFragment {
			t.Errorf("renderOutput() = %q, want %q", got, placeholderFragment)
		}
	})

	t.Run("unknown output kind renders nothing", func(t *testing.T) {
		t.Parallel()

		got, err := renderOutput(Output{Kind: OutputUnknown}, testContext(Options{}))
		if err != nil {
			t.Fatalf("renderOutput() error = %v", err)
		}
		if got != "" {
			t.Errorf("renderOutput() = %q, want empty fragment", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRenderCell - per-kind fragment shapes
// ---------------------------------------------------------------------------

func TestRenderCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{
			name: "markdown passes through unchanged",
			cell: Cell{Kind: CellMarkdown, Source: "# Title\n\nSome *text*."},
			want: "# Title\n\nSome *text*.",
		},
		{
			name: "raw passes through unchanged",
			cell: Cell{Kind: CellRaw, Source: ".. rst-directive::"},
			want: ".. rst-directive::",
		},
		{
			name: "code cell is fenced with language",
			cell: Cell{Kind: CellCode, Source: "print(1)"},
			want: "```python\nprint(1)\n```",
		},
		{
			name: "code cell with output",
			cell: Cell{
				Kind:   CellCode,
				Source: "print(1)",
				Outputs: []Output{
					{Kind: OutputStream, StreamName: "stdout", Text: "1\n"},
				},
			},
			want: "```python\nprint(1)\n```\n\n```stdout\n1\n```",
		},
		{
			name: "empty code cell renders empty fragment",
			cell: Cell{Kind: CellCode, Source: ""},
			want: "",
		},
		{
			name: "unknown cell renders empty fragment",
			cell: Cell{Kind: CellUnknown, Source: "whatever"},
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := renderCell(tt.cell, testContext(Options{}))
			if err != nil {
				t.Fatalf("renderCell() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("renderCell() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFencedBlock - fence growth around embedded backticks
// ---------------------------------------------------------------------------

func TestFencedBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tag  string
		body string
		want string
	}{
		{
			name: "plain body",
			tag:  "python",
			body: "x = 1",
			want: "```python\nx = 1\n```",
		},
		{
			name: "body containing a fence",
			tag:  "",
			body: "```\ninner\n```",
			want: "````\n```\ninner\n```\n````",
		},
		{
			name: "empty body",
			tag:  "python",
			body: "",
			want: "```python\n```",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fencedBlock(tt.tag, tt.body); got != tt.want {
				t.Errorf("fencedBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}
