// Package jupyter converts Jupyter notebooks (.ipynb) to Markdown and
// plugs the conversion into mdBook as a preprocessor.
//
// # Quick Start
//
// Convert a single notebook file:
//
//	md, err := jupyter.ConvertFile("analysis.ipynb", "analysis.ipynb", jupyter.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("analysis.md", []byte(md), 0644)
//
// Or parse and convert in memory:
//
//	nb, err := jupyter.ParseNotebook(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rc := jupyter.NewRenderContext("analysis.ipynb", "analysis.ipynb", jupyter.Options{})
//	md, err := jupyter.Convert(nb, rc)
//
// # Conversion Pipeline
//
// Each notebook converts cell by cell, in stored order:
//
//  1. Markdown and raw cells pass through byte-for-byte.
//  2. Code cells become fenced blocks tagged with the kernel language.
//  3. Captured outputs follow each code cell: streams and errors in
//     fenced blocks, rich outputs via the richest available MIME
//     representation (image > HTML > Markdown > plain text).
//  4. Image payloads are either written as sidecar files beside the
//     chapter with deterministic names, or inlined as data URIs when
//     Options.EmbedImages is set.
//
// # mdBook Integration
//
// The mdbook subpackage speaks the preprocessor protocol. A host run
// looks like:
//
//	ctx, book, err := mdbook.ParseInput(os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ctx.CheckVersion(); err != nil {
//	    log.Fatal(err)
//	}
//	pre := jupyter.NewPreprocessor()
//	if err := pre.Run(ctx, book); err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(book.Bytes())
//
// Chapters not backed by .ipynb files pass through byte-identical.
// Diagnostics go to stderr; stdout carries only the transformed book.
package jupyter
