package jupyter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind identifies the kind of a notebook cell.
type CellKind int

// Cell kinds. Unrecognized cell_type values map to CellUnknown so that
// notebooks written by newer tooling still convert.
const (
	CellMarkdown CellKind = iota
	CellCode
	CellRaw
	CellUnknown
)

// OutputKind identifies the kind of a captured cell output.
type OutputKind int

// Output kinds. Unrecognized output_type values map to OutputUnknown and
// contribute no Markdown.
const (
	OutputStream OutputKind = iota
	OutputDisplayData
	OutputExecuteResult
	OutputError
	OutputUnknown
)

// Notebook is the parsed in-memory form of an .ipynb document.
type Notebook struct {
	FormatMajor int
	FormatMinor int
	// Language is the kernel language declared in the notebook metadata,
	// empty when the notebook declares none.
	Language string
	// Cells in stored order. Order is preserved exactly; conversion never
	// reorders or deduplicates.
	Cells []Cell
}

// Cell is one unit of a notebook: markdown prose, code, or raw content.
type Cell struct {
	Kind   CellKind
	Source string
	// ExecutionCount is nil when the cell was never executed.
	ExecutionCount *int
	// Outputs is non-empty only for code cells.
	Outputs []Output
}

// Output is one captured result of running a code cell.
type Output struct {
	Kind OutputKind

	// Stream fields.
	StreamName string
	Text       string

	// DisplayData / ExecuteResult fields: MIME type to payload. Payloads
	// are UTF-8 text for text/* types and base64 for binary image types.
	Data map[string]string

	// Error fields.
	EName     string
	EValue    string
	Traceback []string
}

// sourceText decodes the nbformat convention of representing text either
// as a single string or as an array of line strings. Each field decodes
// independently; one notebook may mix both encodings.
type sourceText string

func (s *sourceText) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*s = sourceText(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("expected string or string array, got %s", snippet(b))
	}
	*s = sourceText(strings.Join(lines, ""))
	return nil
}

// snippet truncates raw JSON for error messages.
func snippet(b []byte) string {
	const max = 40
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// ParseNotebook deserializes raw .ipynb bytes. It supports nbformat major
// versions 3 and 4 and tolerates missing optional fields and unknown keys.
func ParseNotebook(data []byte) (*Notebook, error) {
	var raw struct {
		NBFormat      int               `json:"nbformat"`
		NBFormatMinor int               `json:"nbformat_minor"`
		Metadata      notebookMetadata  `json:"metadata"`
		Cells         []json.RawMessage `json:"cells"`
		Worksheets    []struct {
			Cells []json.RawMessage `json:"cells"`
		} `json:"worksheets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotebook, err)
	}

	if raw.NBFormat != 3 && raw.NBFormat != 4 {
		return nil, fmt.Errorf("%w: nbformat %d", ErrUnsupportedFormatVersion, raw.NBFormat)
	}

	nb := &Notebook{
		FormatMajor: raw.NBFormat,
		FormatMinor: raw.NBFormatMinor,
		Language:    raw.Metadata.language(),
	}

	rawCells := raw.Cells
	if raw.NBFormat == 3 {
		// nbformat 3 groups cells into worksheets; flatten in order.
		rawCells = nil
		for _, ws := range raw.Worksheets {
			rawCells = append(rawCells, ws.Cells...)
		}
	}

	for i, rc := range rawCells {
		cell, err := parseCell(rc, raw.NBFormat)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

type notebookMetadata struct {
	Kernelspec struct {
		Language string `json:"language"`
		Name     string `json:"name"`
	} `json:"kernelspec"`
	LanguageInfo struct {
		Name string `json:"name"`
	} `json:"language_info"`
	// nbformat 3 stored the language at the metadata top level.
	Language string `json:"language"`
}

func (m notebookMetadata) language() string {
	switch {
	case m.Kernelspec.Language != "":
		return m.Kernelspec.Language
	case m.LanguageInfo.Name != "":
		return m.LanguageInfo.Name
	default:
		return m.Language
	}
}

func parseCell(data json.RawMessage, format int) (Cell, error) {
	var raw struct {
		CellType       string            `json:"cell_type"`
		Source         sourceText        `json:"source"`
		ExecutionCount *int              `json:"execution_count"`
		Outputs        []json.RawMessage `json:"outputs"`

		// nbformat 3 code cells.
		Input        sourceText `json:"input"`
		PromptNumber *int       `json:"prompt_number"`
		// nbformat 3 heading cells.
		Level int `json:"level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Cell{}, fmt.Errorf("%w: %v", ErrMalformedCell, err)
	}
	if raw.CellType == "" {
		return Cell{}, fmt.Errorf("%w: missing cell_type", ErrMalformedCell)
	}

	switch raw.CellType {
	case "markdown":
		return Cell{Kind: CellMarkdown, Source: string(raw.Source)}, nil
	case "raw":
		return Cell{Kind: CellRaw, Source: string(raw.Source)}, nil
	case "heading":
		// nbformat 3 heading cells become markdown headings.
		level := raw.Level
		if level < 1 {
			level = 1
		}
		src := strings.Repeat("#", level) + " " + string(raw.Source)
		return Cell{Kind: CellMarkdown, Source: src}, nil
	case "code":
		cell := Cell{Kind: CellCode, ExecutionCount: raw.ExecutionCount}
		if format == 3 {
			cell.Source = string(raw.Input)
			cell.ExecutionCount = raw.PromptNumber
		} else {
			cell.Source = string(raw.Source)
		}
		for i, ro := range raw.Outputs {
			out, err := parseOutput(ro, format)
			if err != nil {
				return Cell{}, fmt.Errorf("output %d: %w", i, err)
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		return cell, nil
	default:
		// Forward compatibility: unknown cell types pass through inert.
		return Cell{Kind: CellUnknown, Source: string(raw.Source)}, nil
	}
}

// mimeV3 maps the short payload keys of nbformat 3 outputs to MIME types.
var mimeV3 = map[string]string{
	"text":       "text/plain",
	"html":       "text/html",
	"markdown":   "text/markdown",
	"latex":      "text/latex",
	"javascript": "application/javascript",
	"png":        "image/png",
	"jpeg":       "image/jpeg",
	"svg":        "image/svg+xml",
	"pdf":        "application/pdf",
}

func parseOutput(data json.RawMessage, format int) (Output, error) {
	var raw struct {
		OutputType string                     `json:"output_type"`
		Name       string                     `json:"name"`
		Stream     string                     `json:"stream"` // nbformat 3
		Text       sourceText                 `json:"text"`
		Data       map[string]json.RawMessage `json:"data"`
		EName      string                     `json:"ename"`
		EValue     string                     `json:"evalue"`
		Traceback  []string                   `json:"traceback"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrMalformedCell, err)
	}

	switch raw.OutputType {
	case "stream":
		name := raw.Name
		if name == "" {
			name = raw.Stream
		}
		if name == "" {
			name = "stdout"
		}
		return Output{Kind: OutputStream, StreamName: name, Text: string(raw.Text)}, nil
	case "display_data", "execute_result", "pyout":
		kind := OutputExecuteResult
		if raw.OutputType == "display_data" {
			kind = OutputDisplayData
		}
		if format == 3 {
			return Output{Kind: kind, Data: mimeDataV3(data)}, nil
		}
		return Output{Kind: kind, Data: mimeData(raw.Data)}, nil
	case "error", "pyerr":
		return Output{
			Kind:      OutputError,
			EName:     raw.EName,
			EValue:    raw.EValue,
			Traceback: raw.Traceback,
		}, nil
	default:
		return Output{Kind: OutputUnknown}, nil
	}
}

// mimeData flattens an nbformat 4 data bundle into MIME->text payloads.
func mimeData(raw map[string]json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for mime, v := range raw {
		if s, ok := valueToText(v); ok {
			out[mime] = s
		}
	}
	return out
}

// mimeDataV3 extracts payloads keyed by nbformat 3 short names from the
// output object itself (v3 outputs have no nested data bundle).
func mimeDataV3(data json.RawMessage) map[string]string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	out := make(map[string]string)
	for key, mime := range mimeV3 {
		if v, ok := fields[key]; ok {
			if s, ok := valueToText(v); ok {
				out[mime] = s
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// valueToText renders a JSON payload value as text: strings pass through,
// arrays concatenate element-wise, scalars format, objects re-serialize.
func valueToText(raw json.RawMessage) (string, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return anyToText(v)
}

func anyToText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []interface{}:
		var b strings.Builder
		for _, e := range t {
			if s, ok := anyToText(e); ok {
				b.WriteString(s)
			}
		}
		return b.String(), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return fmt.Sprintf("%t", t), true
	case map[string]interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return "", false
	}
}
