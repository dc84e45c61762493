package plist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Document is a decoded property list: the document element and its children.
type Document struct {
	// Name of the document element, normally "plist".
	Name    string
	Version string
	Nodes   []*Node
}

// Root returns the top-level dict of the document.
func (doc *Document) Root() (*Dict, error) {
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: <%s> is empty", ErrMalformed, doc.Name)
	}
	first := doc.Nodes[0]
	if first.Kind != KindDict {
		return nil, fmt.Errorf("%w: top-level <%s> is not a dict", ErrMalformed, first.Kind)
	}
	return first.Dict()
}

// Decode parses text, which must already be decoded to UTF-8, into a Document.
// The encoding named by the XML declaration is not applied again.
func Decode(text string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		doc   *Document
		stack []*Node
		done  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if done {
				return nil, fmt.Errorf("%w: content after document element", ErrMalformed)
			}
			if doc == nil {
				doc = &Document{Name: t.Name.Local}
				for _, attr := range t.Attr {
					if attr.Name.Local == "version" {
						doc.Version = attr.Value
					}
				}
				continue
			}
			kind, ok := kindOf(t.Name.Local)
			if !ok {
				return nil, fmt.Errorf("%w: unknown element <%s>", ErrMalformed, t.Name.Local)
			}
			n := &Node{Kind: kind}
			if len(stack) == 0 {
				doc.Nodes = append(doc.Nodes, n)
			} else {
				parent := stack[len(stack)-1]
				if !parent.Kind.container() {
					return nil, fmt.Errorf("%w: <%s> inside <%s>", ErrMalformed, kind, parent.Kind)
				}
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				done = true
				continue
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (n.Kind == KindTrue || n.Kind == KindFalse) && strings.TrimSpace(n.Text) != "" {
				return nil, fmt.Errorf("%w: <%s> has content", ErrMalformed, n.Kind)
			}

		case xml.CharData:
			if len(stack) == 0 || stack[len(stack)-1].Kind.container() {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("%w: unexpected text %q", ErrMalformed, strings.TrimSpace(string(t)))
				}
				continue
			}
			n := stack[len(stack)-1]
			n.Text += string(t)
		}
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: no document element", ErrMalformed)
	}
	if !done {
		return nil, fmt.Errorf("%w: unexpected end of document", ErrMalformed)
	}
	return doc, nil
}
