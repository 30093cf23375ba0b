package jupyter

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/nbdoc/mdbook-jupyter/internal/logging"
	"github.com/nbdoc/mdbook-jupyter/mdbook"
)

// Preprocessor converts every .ipynb-backed chapter of a book into
// Markdown. Chapters backed by anything else pass through untouched.
type Preprocessor struct{}

// NewPreprocessor creates a Preprocessor.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Name is the preprocessor's name in the book configuration.
func (p *Preprocessor) Name() string {
	return "jupyter"
}

// SupportsRenderer reports whether this preprocessor can run for the
// named renderer. It produces plain Markdown, which both the HTML and
// Markdown renderers consume.
func (p *Preprocessor) SupportsRenderer(renderer string) bool {
	return renderer == "html" || renderer == "markdown"
}

// Run walks the book and replaces the content of every chapter whose
// source path ends in .ipynb with rendered Markdown. Per-chapter
// failures are reported on stderr and never abort the rest of the book:
// an unreadable notebook leaves the chapter unmodified, a conversion
// failure leaves a clearly marked placeholder.
func (p *Preprocessor) Run(ctx *mdbook.Context, book *mdbook.Book) error {
	opts := p.options(ctx)
	srcDir := filepath.Join(ctx.Root, filepath.FromSlash(ctx.SrcDir))

	return book.WalkChapters(func(ch *mdbook.Chapter) error {
		chPath := ch.Path()
		if path.Ext(chPath) != ".ipynb" {
			return nil
		}

		fullPath := filepath.Join(srcDir, filepath.FromSlash(chPath))
		logging.Info("converting notebook %s", fullPath)

		data, err := os.ReadFile(fullPath)
		if err != nil {
			// Leave the chapter as-is rather than deleting it.
			logging.Error("skipping chapter %q: %v: %v", ch.Name(), ErrChapterRead, err)
			return nil
		}

		md, err := convertChapter(data, fullPath, opts)
		if err != nil {
			logging.Error("converting notebook %s: %v", fullPath, err)
			return ch.SetContent(errorPlaceholder(chPath, err))
		}
		return ch.SetContent(md)
	})
}

// options reads the [preprocessor.jupyter] table from the book
// configuration. A missing table means defaults.
func (p *Preprocessor) options(ctx *mdbook.Context) Options {
	cfg := ctx.PreprocessorConfig(p.Name())
	opts := Options{
		EmbedImages: cfg.Get("embed_images").Bool(),
		AssetsDir:   cfg.Get("assets_dir").String(),
	}
	if opts.AssetsDir != "" && !filepath.IsAbs(opts.AssetsDir) {
		opts.AssetsDir = filepath.Join(ctx.Root, filepath.FromSlash(opts.AssetsDir))
	}
	return opts
}

func convertChapter(data []byte, notebookPath string, opts Options) (string, error) {
	nb, err := ParseNotebook(data)
	if err != nil {
		return "", err
	}
	rc := NewRenderContext(notebookPath, notebookPath, opts)
	return Convert(nb, rc)
}

// errorPlaceholder is the chapter body injected when conversion fails,
// so the built book shows the cause instead of an empty page.
func errorPlaceholder(chapterPath string, err error) string {
	return fmt.Sprintf(
		"<!-- mdbook-jupyter: conversion error -->\n\n"+
			"> **Notebook conversion failed** for `%s`\n\n```\n%v\n```\n",
		chapterPath, err)
}
