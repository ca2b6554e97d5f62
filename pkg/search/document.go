package search

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// IDField is the field drivers use as the document's unique key. It matches
// case-insensitively, so an untagged ID struct field qualifies.
const IDField = "id"

// Field is one entry of a Document. Sequence values are expanded into several
// Fields sharing the same Name.
type Field struct {
	Name  string
	Value any
}

// FieldEntry is what an Indexable reports: a scalar or a slice of scalars.
type FieldEntry struct {
	Name  string
	Value any
}

// Indexable lets a type control its own mapping instead of relying on
// struct reflection.
type Indexable interface {
	FieldEntries() []FieldEntry
}

// Map is a loosely typed document, as decoded from JSON. Fields are emitted in
// key order.
type Map map[string]any

func (m Map) FieldEntries() []FieldEntry {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]FieldEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, FieldEntry{Name: k, Value: m[k]})
	}
	return out
}

// Document is the service-native representation of one record.
type Document struct {
	fields []Field
}

// Add appends a single field entry.
func (d *Document) Add(name string, value any) {
	d.fields = append(d.fields, Field{Name: name, Value: value})
}

// Fields returns the entries in insertion order.
func (d Document) Fields() []Field { return slices.Clone(d.fields) }

// Len returns the number of entries, counting repeated fields individually.
func (d Document) Len() int { return len(d.fields) }

// ID returns the value of the first entry whose name equals IDField, ignoring case.
func (d Document) ID() (any, bool) {
	for _, f := range d.fields {
		if strings.EqualFold(f.Name, IDField) {
			return f.Value, true
		}
	}
	return nil, false
}

// Values returns every value recorded under name, in order.
func (d Document) Values(name string) []any {
	var out []any
	for _, f := range d.fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// Map collapses the document into a JSON-friendly map. Repeated fields become
// slices; a field with a single entry stays scalar.
func (d Document) Map() map[string]any {
	out := make(map[string]any, len(d.fields))
	counts := make(map[string]int, len(d.fields))
	for _, f := range d.fields {
		counts[f.Name]++
	}
	for _, f := range d.fields {
		if counts[f.Name] == 1 {
			out[f.Name] = f.Value
			continue
		}
		list, _ := out[f.Name].([]any)
		out[f.Name] = append(list, f.Value)
	}
	return out
}

// ToDocument converts v into a Document. v must be an Indexable, a struct or a
// non-nil pointer to one; anything else yields ErrInvalidDocument. Exported
// struct fields are emitted in declaration order under their Go name, and
// fields promoted from embedded structs are inlined whether or not the
// embedded type is exported. Slice and array values (other than []byte)
// expand into repeated entries.
//
// Untagged structs keep every exported field under its own name. The
// `search` tag is an opt-in exception: `search:"name"` renames a field and
// `search:"-"` drops it.
func ToDocument(v any) (Document, error) {
	if ix, ok := v.(Indexable); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Document{}, ErrInvalidDocument
		}
		var doc Document
		for _, e := range ix.FieldEntries() {
			addValue(&doc, e.Name, reflect.ValueOf(e.Value))
		}
		return doc, nil
	}

	rv, ok := structValue(v)
	if !ok {
		return Document{}, ErrInvalidDocument
	}
	var doc Document
	addStruct(&doc, rv)
	return doc, nil
}

// IsDocument reports whether ToDocument would accept v.
func IsDocument(v any) bool {
	if _, ok := v.(Indexable); ok {
		rv := reflect.ValueOf(v)
		return rv.Kind() != reflect.Pointer || !rv.IsNil()
	}
	_, ok := structValue(v)
	return ok
}

func structValue(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.Kind() == reflect.Struct
}

func addStruct(doc *Document, rv reflect.Value) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if sf.Anonymous {
			if inner, ok := embeddedStruct(fv); ok {
				addStruct(doc, inner)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("search"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		addValue(doc, name, fv)
	}
}

func embeddedStruct(fv reflect.Value) (reflect.Value, bool) {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return reflect.Value{}, false
		}
		fv = fv.Elem()
	}
	return fv, fv.Kind() == reflect.Struct
}

func addValue(doc *Document, name string, v reflect.Value) {
	if !v.IsValid() {
		doc.Add(name, nil)
		return
	}
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		fallthrough
	case reflect.Array:
		for i := range v.Len() {
			doc.Add(name, v.Index(i).Interface())
		}
		return
	}
	doc.Add(name, v.Interface())
}
