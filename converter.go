package jupyter

import (
	"fmt"
	"os"
	"strings"
)

// Options configures notebook conversion. The zero value or a missing
// option table means: write extracted images as sidecar files beside the
// chapter.
type Options struct {
	// EmbedImages inlines images as data URIs instead of writing files.
	EmbedImages bool
	// AssetsDir overrides the directory extracted images are written to.
	// Empty means a "<chapter>_files" directory beside the chapter.
	AssetsDir string
}

// Convert renders a whole notebook to one Markdown document. Cell
// fragments appear in stored cell order, separated by exactly one blank
// line. Conversion is deterministic: the same notebook and a fresh
// context always produce byte-identical Markdown and the same ordered
// asset filenames.
func Convert(nb *Notebook, rc *RenderContext) (string, error) {
	if rc.language == "" {
		rc.language = fenceLanguage(nb.Language)
	}

	parts := make([]string, 0, len(nb.Cells))
	for i, cell := range nb.Cells {
		frag, err := renderCell(cell, rc)
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", i, err)
		}
		frag = strings.TrimRight(frag, "\n")
		if frag == "" {
			continue
		}
		parts = append(parts, frag)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// ConvertFile reads and converts the notebook at notebookPath. Extracted
// images are written relative to chapterPath, which is also the path the
// returned Markdown references them from.
func ConvertFile(notebookPath, chapterPath string, opts Options) (string, error) {
	data, err := os.ReadFile(notebookPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChapterRead, err)
	}
	nb, err := ParseNotebook(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", notebookPath, err)
	}
	rc := NewRenderContext(notebookPath, chapterPath, opts)
	return Convert(nb, rc)
}
