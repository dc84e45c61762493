package plist

import (
	"errors"
	"strings"
)

// ErrMalformed is returned for documents that are not well-formed XML or that
// do not follow the property-list layout.
var ErrMalformed = errors.New("plist: malformed document")

// Kind identifies the property-list element a Node was decoded from.
type Kind int

const (
	KindKey Kind = iota
	KindDict
	KindArray
	KindString
	KindInteger
	KindReal
	KindTrue
	KindFalse
	KindDate
	KindData
)

var kindNames = [...]string{
	KindKey:     "key",
	KindDict:    "dict",
	KindArray:   "array",
	KindString:  "string",
	KindInteger: "integer",
	KindReal:    "real",
	KindTrue:    "true",
	KindFalse:   "false",
	KindDate:    "date",
	KindData:    "data",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// kindOf classifies a tag name. Comparison ignores case, like the packers that
// emit these files.
func kindOf(tag string) (Kind, bool) {
	tag = strings.ToLower(tag)
	for k, name := range kindNames {
		if name == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// container reports whether nodes of this kind hold child nodes rather than text.
func (k Kind) container() bool {
	return k == KindDict || k == KindArray
}

// Node is one decoded property-list element.
type Node struct {
	Kind Kind

	// Text is the character data of leaf nodes (key names, strings, numbers).
	Text string

	// Children holds the child nodes of a dict or array, in document order.
	Children []*Node
}

// Bool reports the boolean value of a true/false node. ok is false for every
// other kind.
func (n *Node) Bool() (value, ok bool) {
	switch n.Kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	}
	return false, false
}

// Dict materializes the key/value table of a dict node.
func (n *Node) Dict() (*Dict, error) {
	if n.Kind != KindDict {
		return nil, ErrMalformed
	}
	return newDict(n.Children)
}
