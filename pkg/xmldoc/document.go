// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// DefaultIndent is the number of spaces used per level when pretty-printing.
const DefaultIndent = 4

// ErrNoRootElement is returned when parsed input contains no root element.
var ErrNoRootElement = errors.New("xml document has no root element")

type (
	// Document is a parsed, mutable XML tree.
	Document struct {
		doc *etree.Document
	}

	// WriteOptions controls serialization.
	WriteOptions struct {
		// Pretty re-indents the whole tree before writing.
		Pretty bool
		// Indent is the number of spaces per level; zero means DefaultIndent.
		Indent int
	}
)

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRootElement
	}
	return &Document{doc: doc}, nil
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// FindPath returns the first element matching p, or nil.
func (d *Document) FindPath(p Path) *etree.Element {
	return d.doc.FindElementPath(p.compiled)
}

// FindAllPath returns every element matching p in document order.
func (d *Document) FindAllPath(p Path) []*etree.Element {
	return d.doc.FindElementsPath(p.compiled)
}

// Find compiles expr and returns the first matching element, or nil.
func (d *Document) Find(expr string) (*etree.Element, error) {
	p, err := CompilePath(expr)
	if err != nil {
		return nil, err
	}
	return d.FindPath(p), nil
}

// FindAll compiles expr and returns every matching element.
func (d *Document) FindAll(expr string) ([]*etree.Element, error) {
	p, err := CompilePath(expr)
	if err != nil {
		return nil, err
	}
	return d.FindAllPath(p), nil
}

// TextPath returns the text of the first element matching p.
// The boolean is false when no element matches.
func (d *Document) TextPath(p Path) (string, bool) {
	e := d.FindPath(p)
	if e == nil {
		return "", false
	}
	return e.Text(), true
}

// RemoveAllPath detaches every element matching p and reports how many were removed.
func (d *Document) RemoveAllPath(p Path) int {
	elems := d.FindAllPath(p)
	for _, e := range elems {
		if parent := e.Parent(); parent != nil {
			parent.RemoveChild(e)
		}
	}
	return len(elems)
}

// WriteTo serializes the current tree to w. Pretty-printing works on a copy,
// so the in-memory tree keeps its original whitespace.
func (d *Document) WriteTo(w io.Writer, opts WriteOptions) error {
	doc := d.doc
	if opts.Pretty {
		doc = d.doc.Copy()
		indent := opts.Indent
		if indent <= 0 {
			indent = DefaultIndent
		}
		doc.Indent(indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xml: %w", err)
	}
	return nil
}

// Bytes serializes the current tree into a new buffer.
func (d *Document) Bytes(opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
