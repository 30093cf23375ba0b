package mdbook

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Book wraps the raw book payload. Mutations go through Chapter
// setters, which rewrite single leaves in place; separators, part
// titles, numbering and any field this module does not model survive
// the round trip byte-for-byte.
type Book struct {
	raw []byte
}

// NewBook wraps raw book JSON. Intended for tests and embedding hosts;
// ParseInput is the normal entry point.
func NewBook(raw []byte) *Book {
	return &Book{raw: raw}
}

// Bytes returns the serialized book, including any content mutations.
func (b *Book) Bytes() []byte {
	return b.raw
}

// Chapter is a view over one chapter node of the book tree.
type Chapter struct {
	book *Book
	path string // gjson path to the Chapter object
}

// Name returns the chapter title.
func (ch *Chapter) Name() string {
	return ch.get("name").String()
}

// Path returns the chapter's source file path relative to the book's
// source directory, or "" for draft chapters with no backing file.
func (ch *Chapter) Path() string {
	return ch.get("path").String()
}

// Content returns the chapter's current content.
func (ch *Chapter) Content() string {
	return ch.get("content").String()
}

// SetContent replaces the chapter's content field, leaving the title,
// path and tree position untouched.
func (ch *Chapter) SetContent(content string) error {
	raw, err := sjson.SetBytes(ch.book.raw, ch.path+".content", content)
	if err != nil {
		return fmt.Errorf("setting content for %q: %w", ch.Name(), err)
	}
	ch.book.raw = raw
	return nil
}

func (ch *Chapter) get(field string) gjson.Result {
	return gjson.GetBytes(ch.book.raw, ch.path+"."+field)
}

// WalkChapters visits every chapter in the book depth-first, in stored
// order. Non-chapter items (separators, part titles) are passed over.
// The callback may mutate the chapter it is given; returning an error
// stops the walk.
func (b *Book) WalkChapters(fn func(*Chapter) error) error {
	return b.walkItems("sections", fn)
}

func (b *Book) walkItems(itemsPath string, fn func(*Chapter) error) error {
	count := gjson.GetBytes(b.raw, itemsPath+".#").Int()
	for i := int64(0); i < count; i++ {
		chapterPath := fmt.Sprintf("%s.%d.Chapter", itemsPath, i)
		if !gjson.GetBytes(b.raw, chapterPath).Exists() {
			continue
		}
		ch := &Chapter{book: b, path: chapterPath}
		if err := fn(ch); err != nil {
			return err
		}
		if err := b.walkItems(chapterPath+".sub_items", fn); err != nil {
			return err
		}
	}
	return nil
}
