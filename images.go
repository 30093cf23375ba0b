package jupyter

import (
	"encoding/base64"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/nbdoc/mdbook-jupyter/internal/fileutil"
	"github.com/nbdoc/mdbook-jupyter/internal/logging"
)

// RenderContext carries per-conversion state: where the chapter lives,
// how images are handled, and the counters that keep generated asset
// names unique. One context serves exactly one notebook conversion and
// is discarded afterwards; contexts are never shared across chapters.
type RenderContext struct {
	// NotebookPath is the source .ipynb file, used for diagnostics.
	NotebookPath string
	// ChapterPath is the destination chapter file; extracted assets are
	// written beside it and referenced relative to it.
	ChapterPath string

	opts       Options
	language   string
	counter    int
	emitted    map[string]struct{}
	assetOrder []string
}

// NewRenderContext creates the state for one notebook conversion.
func NewRenderContext(notebookPath, chapterPath string, opts Options) *RenderContext {
	return &RenderContext{
		NotebookPath: notebookPath,
		ChapterPath:  chapterPath,
		opts:         opts,
		emitted:      make(map[string]struct{}),
	}
}

// EmittedAssets returns the generated asset filenames in emission order.
func (rc *RenderContext) EmittedAssets() []string {
	return append([]string(nil), rc.assetOrder...)
}

// chapterStem is the chapter filename without extension, used to derive
// asset directory and filenames.
func (rc *RenderContext) chapterStem() string {
	base := filepath.Base(rc.ChapterPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// assetDir returns the directory extracted images are written to.
func (rc *RenderContext) assetDir() string {
	if rc.opts.AssetsDir != "" {
		return rc.opts.AssetsDir
	}
	return filepath.Join(filepath.Dir(rc.ChapterPath), rc.chapterStem()+"_files")
}

// imageExtensions maps MIME subtypes to file extensions.
var imageExtensions = map[string]string{
	"png":     "png",
	"jpeg":    "jpg",
	"svg+xml": "svg",
	"gif":     "gif",
	"webp":    "webp",
	"bmp":     "bmp",
}

// mimeSubtype returns the part of a MIME type after the slash.
func mimeSubtype(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return mime[i+1:]
	}
	return mime
}

// imageExtension picks a file extension for an image MIME type.
func imageExtension(mime string) string {
	sub := mimeSubtype(mime)
	if ext, ok := imageExtensions[sub]; ok {
		return ext
	}
	return sanitizeTag(sub)
}

// isTextualImage reports whether the payload for this MIME type is stored
// as text rather than base64 (SVG is the common case).
func isTextualImage(mime string) bool {
	return mime == "image/svg+xml"
}

// extractImage turns one image payload into a Markdown-referencable
// location. With embedding enabled it returns a self-contained data URI
// and touches no files; otherwise it decodes the payload, writes a
// sidecar file with a deterministic collision-free name, and returns the
// path relative to the chapter.
//
// Returns errInvalidImageData for undecodable payloads (callers degrade
// to a placeholder) and ErrAssetWrite for filesystem failures (callers
// fail the chapter).
func extractImage(mime, payload string, rc *RenderContext) (string, error) {
	if rc.opts.EmbedImages {
		b64 := compactBase64(payload)
		if isTextualImage(mime) {
			b64 = base64.StdEncoding.EncodeToString([]byte(payload))
		}
		return "data:" + mime + ";base64," + b64, nil
	}

	var content []byte
	if isTextualImage(mime) {
		content = []byte(payload)
	} else {
		decoded, err := base64.StdEncoding.DecodeString(compactBase64(payload))
		if err != nil {
			return "", fmt.Errorf("%w: %v", errInvalidImageData, err)
		}
		content = decoded
	}

	name := rc.nextAssetName(imageExtension(mime))
	target := filepath.Join(rc.assetDir(), name)
	if err := fileutil.WriteFile(target, content); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	logging.Debug("wrote asset %s (%d bytes)", target, len(content))

	return rc.assetRef(name), nil
}

// nextAssetName generates the next unique asset filename for this chapter.
// Names derive from the chapter stem and a per-chapter counter; on a
// collision with an already-emitted name a numeric suffix is appended
// until the name is unique.
func (rc *RenderContext) nextAssetName(ext string) string {
	name := fmt.Sprintf("%s_%d.%s", rc.chapterStem(), rc.counter, ext)
	rc.counter++
	for suffix := 1; ; suffix++ {
		if _, taken := rc.emitted[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d-%d.%s", rc.chapterStem(), rc.counter-1, suffix, ext)
	}
	rc.emitted[name] = struct{}{}
	rc.assetOrder = append(rc.assetOrder, name)
	return name
}

// assetRef builds the reference from the chapter to a generated asset,
// always using forward slashes.
func (rc *RenderContext) assetRef(name string) string {
	if rc.opts.AssetsDir == "" {
		return path.Join(rc.chapterStem()+"_files", name)
	}
	rel, err := filepath.Rel(filepath.Dir(rc.ChapterPath), rc.opts.AssetsDir)
	if err != nil {
		return path.Join(filepath.ToSlash(rc.opts.AssetsDir), name)
	}
	return path.Join(filepath.ToSlash(rel), name)
}

// compactBase64 strips the whitespace notebook writers wrap base64 with.
func compactBase64(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
