package jupyter

import (
	"errors"
	"sort"
	"strings"

	"github.com/nbdoc/mdbook-jupyter/internal/ansi"
	"github.com/nbdoc/mdbook-jupyter/internal/logging"
)

// placeholderFragment stands in for an output that has a known type but
// an unusable payload. One bad output never aborts a notebook.
const placeholderFragment = "[unrenderable output]"

// mimePriority is the fixed order representations are tried in. Exactly
// one representation is rendered per output: the richest available.
// Any image/* type not listed here still outranks the text types.
var mimePriority = []string{
	"image/png",
	"image/jpeg",
	"image/svg+xml",
	"image/gif",
	"image/webp",
	"text/html",
	"text/markdown",
	"text/plain",
}

// richestMime selects the representation to render from a data bundle.
func richestMime(data map[string]string) (mime, payload string, ok bool) {
	for _, m := range mimePriority {
		// Other image types slot in after the known images but before
		// text; probe for them once the explicit image list is done.
		if m == "text/html" {
			extra := make([]string, 0, 1)
			for k := range data {
				if strings.HasPrefix(k, "image/") {
					extra = append(extra, k)
				}
			}
			sort.Strings(extra)
			for _, k := range extra {
				return k, data[k], true
			}
		}
		if p, present := data[m]; present {
			return m, p, true
		}
	}
	return "", "", false
}

// renderOutput maps one captured output to a Markdown fragment. Only an
// asset write failure is returned as an error; every other problem
// degrades to a placeholder or an empty fragment.
func renderOutput(out Output, rc *RenderContext) (string, error) {
	switch out.Kind {
	case OutputStream:
		return fencedBlock(out.StreamName, out.Text), nil

	case OutputError:
		lines := make([]string, 0, len(out.Traceback))
		for _, l := range out.Traceback {
			lines = append(lines, ansi.Strip(l))
		}
		body := out.EName + ": " + out.EValue
		if len(lines) > 0 {
			body += "\n" + strings.Join(lines, "\n")
		}
		return fencedBlock("error", body), nil

	case OutputDisplayData, OutputExecuteResult:
		mime, payload, ok := richestMime(out.Data)
		if !ok {
			// No representation this converter understands; dropping the
			// output beats corrupting the chapter.
			return "", nil
		}
		switch {
		case strings.HasPrefix(mime, "image/"):
			ref, err := extractImage(mime, payload, rc)
			if err != nil {
				if errors.Is(err, ErrAssetWrite) {
					return "", err
				}
				logging.Warning("%s: %v", rc.NotebookPath, err)
				return placeholderFragment, nil
			}
			return "![" + mimeSubtype(mime) + "](" + ref + ")", nil
		case mime == "text/html":
			// Markdown renderers pass inline HTML through; no fencing.
			return payload, nil
		case mime == "text/markdown":
			return payload, nil
		default:
			return fencedBlock("", payload), nil
		}

	default:
		return "", nil
	}
}

// renderCell maps one cell to a Markdown fragment. Markdown and raw
// sources pass through byte-for-byte; re-escaping user-authored Markdown
// would corrupt it.
func renderCell(cell Cell, rc *RenderContext) (string, error) {
	switch cell.Kind {
	case CellMarkdown, CellRaw:
		return cell.Source, nil

	case CellCode:
		if cell.Source == "" && len(cell.Outputs) == 0 {
			return "", nil
		}
		parts := []string{fencedBlock(rc.language, cell.Source)}
		for _, out := range cell.Outputs {
			frag, err := renderOutput(out, rc)
			if err != nil {
				return "", err
			}
			frag = strings.TrimRight(frag, "\n")
			if frag == "" {
				continue
			}
			parts = append(parts, frag)
		}
		return strings.Join(parts, "\n\n"), nil

	default:
		return "", nil
	}
}

// fencedBlock wraps body in a fenced code block with the given info tag.
// The fence grows past the longest backtick run in the body so content
// containing code fences cannot terminate the block early. The body's
// internal whitespace, including CRLF line endings, is preserved.
func fencedBlock(tag, body string) string {
	marker := strings.Repeat("`", fenceLen(body))
	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(tag)
	b.WriteString("\n")
	b.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(marker)
	return b.String()
}

// fenceLen returns the marker length needed to safely fence body.
func fenceLen(body string) int {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest >= 3 {
		return longest + 1
	}
	return 3
}
