// Package mdbook implements the mdBook preprocessor protocol: parsing
// the handshake payload a host sends on stdin, checking version
// compatibility, and walking the book tree while preserving every field
// this module does not understand.
package mdbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"
)

// HostVersion is the mdBook version this preprocessor is built against.
// Hosts with a different major.minor are rejected.
const HostVersion = "0.4.21"

// Sentinel errors for protocol failures. Both are fatal to the run: the
// host gets a non-zero exit and no book output.
var (
	ErrMalformedPayload    = errors.New("malformed preprocessor input")
	ErrIncompatibleVersion = errors.New("incompatible mdbook version")
)

// Context is the host metadata half of the handshake.
type Context struct {
	// Root is the book's root directory as declared by the host.
	Root string
	// Renderer is the renderer this run targets (e.g. "html").
	Renderer string
	// MdBookVersion is the host's declared version.
	MdBookVersion string
	// SrcDir is the book source directory relative to Root.
	SrcDir string

	config gjson.Result
}

// ParseInput reads the handshake from r: a context value followed by the
// book value, either as two whitespace-delimited JSON documents or as a
// single two-element JSON array.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	dec := json.NewDecoder(r)

	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var ctxRaw, bookRaw json.RawMessage
	if trimmed := bytes.TrimSpace(first); len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(first, &pair); err != nil || len(pair) != 2 {
			return nil, nil, fmt.Errorf("%w: expected [context, book] pair", ErrMalformedPayload)
		}
		ctxRaw, bookRaw = pair[0], pair[1]
	} else {
		ctxRaw = first
		if err := dec.Decode(&bookRaw); err != nil {
			return nil, nil, fmt.Errorf("%w: missing book value: %v", ErrMalformedPayload, err)
		}
	}

	ctxJSON := gjson.ParseBytes(ctxRaw)
	if !ctxJSON.IsObject() {
		return nil, nil, fmt.Errorf("%w: context is not an object", ErrMalformedPayload)
	}
	if !gjson.ParseBytes(bookRaw).IsObject() {
		return nil, nil, fmt.Errorf("%w: book is not an object", ErrMalformedPayload)
	}

	ctx := &Context{
		Root:          ctxJSON.Get("root").String(),
		Renderer:      ctxJSON.Get("renderer").String(),
		MdBookVersion: ctxJSON.Get("mdbook_version").String(),
		SrcDir:        ctxJSON.Get("config.book.src").String(),
		config:        ctxJSON.Get("config"),
	}
	if ctx.SrcDir == "" {
		ctx.SrcDir = "src"
	}
	return ctx, &Book{raw: bookRaw}, nil
}

// PreprocessorConfig returns the option table the book configuration
// declares for the named preprocessor. The result does not exist when
// the table is absent; callers fall back to defaults.
func (c *Context) PreprocessorConfig(name string) gjson.Result {
	return c.config.Get("preprocessor." + name)
}

// CheckVersion verifies the host's declared version shares major.minor
// with HostVersion. A mismatch fails fast so an incompatible host never
// receives a silently corrupted book.
func (c *Context) CheckVersion() error {
	v := "v" + c.MdBookVersion
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: cannot parse host version %q", ErrIncompatibleVersion, c.MdBookVersion)
	}
	if semver.MajorMinor(v) != semver.MajorMinor("v"+HostVersion) {
		return fmt.Errorf("%w: host is %s, supported is %s.x",
			ErrIncompatibleVersion, c.MdBookVersion, semver.MajorMinor("v"+HostVersion))
	}
	return nil
}
