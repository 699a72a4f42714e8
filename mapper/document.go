package mapper

import (
	"bytes"
	"encoding/json"
	"sort"
)

// KeyField is the name of the derived key field.
const KeyField = "key"

type Field struct {
	Name  string
	Value interface{}
}

// Document is an ordered field mapping. Fields serialize in insertion order;
// setting an existing name replaces its value in place.
type Document struct {
	fields []Field
	index  map[string]int
}

func NewDocument(capacity int) *Document {
	return &Document{
		fields: make([]Field, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

func (self *Document) Set(name string, value interface{}) {
	if i, ok := self.index[name]; ok {
		self.fields[i].Value = value
		return
	}
	self.index[name] = len(self.fields)
	self.fields = append(self.fields, Field{Name: name, Value: value})
}

func (self *Document) Get(name string) (interface{}, bool) {
	i, ok := self.index[name]
	if !ok {
		return nil, false
	}
	return self.fields[i].Value, true
}

func (self *Document) Has(name string) bool {
	_, ok := self.index[name]
	return ok
}

func (self *Document) Len() int {
	return len(self.fields)
}

func (self *Document) Fields() []Field {
	return self.fields
}

// Names returns the top level field names in order.
func (self *Document) Names() []string {
	names := make([]string, 0, len(self.fields))
	for _, f := range self.fields {
		names = append(names, f.Name)
	}
	return names
}

// FieldPaths returns the sorted, de-duplicated set of leaf field paths.
// Nested documents contribute "parent.child"; sequences of documents
// contribute "parent[].child".
func (self *Document) FieldPaths() []string {
	set := make(map[string]struct{})
	self.collectPaths("", set)
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (self *Document) collectPaths(prefix string, set map[string]struct{}) {
	for _, f := range self.fields {
		name := prefix + f.Name
		switch v := f.Value.(type) {
		case *Document:
			v.collectPaths(name+".", set)
		case []*Document:
			for _, sub := range v {
				sub.collectPaths(name+"[].", set)
			}
		default:
			set[name] = struct{}{}
		}
	}
}

func (self *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range self.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(&buf, f.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// drop the newline Encode terminates every value with
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Serialize renders doc as one newline terminated JSON line.
func Serialize(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
