package plist

import "fmt"

// Entry is one key/value pair of a dict, as it appeared in the document.
type Entry struct {
	Key   string
	Value *Node
}

// Dict is the ordered key/value table of a dict node.
// Repeated keys are all kept in Entries; Lookup sees the last one.
type Dict struct {
	entries []Entry
	index   map[string]int
}

func newDict(children []*Node) (*Dict, error) {
	d := &Dict{index: make(map[string]int)}
	for i := 0; i < len(children); i++ {
		child := children[i]
		if child.Kind != KindKey {
			continue
		}
		i++
		if i >= len(children) {
			return nil, fmt.Errorf("%w: key %q has no value", ErrMalformed, child.Text)
		}
		d.index[child.Text] = len(d.entries)
		d.entries = append(d.entries, Entry{Key: child.Text, Value: children[i]})
	}
	return d, nil
}

// Lookup returns the value stored under key.
func (d *Dict) Lookup(key string) (*Node, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// First returns the value of the first key in keys that is present.
func (d *Dict) First(keys ...string) (string, *Node, bool) {
	for _, key := range keys {
		if v, ok := d.Lookup(key); ok {
			return key, v, true
		}
	}
	return "", nil, false
}

// Entries returns every pair in document order.
func (d *Dict) Entries() []Entry {
	return d.entries
}

// Len returns the number of pairs, counting repeated keys.
func (d *Dict) Len() int {
	return len(d.entries)
}
