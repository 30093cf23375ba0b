package jupyter

import "errors"

// Sentinel errors for notebook parsing and conversion.
var (
	// ErrMalformedNotebook indicates the notebook is not a JSON object.
	ErrMalformedNotebook = errors.New("malformed notebook")

	// ErrUnsupportedFormatVersion indicates an nbformat major version
	// outside the supported set (3, 4).
	ErrUnsupportedFormatVersion = errors.New("unsupported nbformat version")

	// ErrMalformedCell indicates a cell without a usable cell_type or with
	// a source/outputs field of the wrong shape.
	ErrMalformedCell = errors.New("malformed cell")

	// ErrAssetWrite indicates an unrecoverable filesystem error while
	// writing an extracted image. It fails the chapter, not the run.
	ErrAssetWrite = errors.New("asset write failed")

	// ErrChapterRead indicates the chapter's backing notebook file could
	// not be read.
	ErrChapterRead = errors.New("chapter read failed")
)

// errInvalidImageData marks an image payload that could not be decoded.
// Callers degrade to a placeholder fragment instead of failing the chapter.
var errInvalidImageData = errors.New("invalid image payload")
