// Package template defines reusable field-location templates and their
// JSON-on-disk persistence. A template names a document class ("Acme Invoice")
// and carries one extraction rule per field of interest.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one named rule for locating a value in a document. Keyword is the
// textual anchor; X/Y is the optional spatial anchor in page-space units.
// 0,0 means "no spatial hint".
type Field struct {
	Name    string  `json:"FieldName"`
	Keyword string  `json:"Keyword"`
	X       float64 `json:"XCoordinate"`
	Y       float64 `json:"YCoordinate"`
}

// HasKeyword reports whether the field carries a usable textual anchor.
func (f Field) HasKeyword() bool {
	return f.Keyword != ""
}

// HasSpatialHint reports whether both coordinates are strictly positive.
// Zero or negative coordinates disable spatial lookup entirely.
func (f Field) HasSpatialHint() bool {
	return f.X > 0 && f.Y > 0
}

// Template is a named, ordered set of extraction fields. Field iteration
// order matters for segmentation delimiter selection, so fields are kept in
// insertion order rather than in Go map order.
type Template struct {
	Name   string   `json:"TemplateName"`
	Fields FieldMap `json:"Fields"`
}

// Keywords returns the non-empty keywords of the template's fields in
// declaration order.
func (t *Template) Keywords() []string {
	var keywords []string
	for _, f := range t.Fields.Values() {
		if f.HasKeyword() {
			keywords = append(keywords, f.Keyword)
		}
	}
	return keywords
}

// FieldMap is a string-keyed collection of fields that preserves insertion
// order across JSON round-trips. The persisted form is a plain JSON object,
// which does not guarantee ordering, so the order is best-effort: it is kept
// exactly as it appears in the file.
type FieldMap struct {
	keys   []string
	fields map[string]Field
}

// NewFieldMap builds a FieldMap from fields keyed by their FieldName.
func NewFieldMap(fields ...Field) FieldMap {
	var fm FieldMap
	for _, f := range fields {
		fm.Set(f.Name, f)
	}
	return fm
}

// Set inserts or replaces the field stored under key. A replaced field keeps
// its original position.
func (m *FieldMap) Set(key string, f Field) {
	if m.fields == nil {
		m.fields = make(map[string]Field)
	}
	if _, exists := m.fields[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.fields[key] = f
}

// Get returns the field stored under key.
func (m *FieldMap) Get(key string) (Field, bool) {
	f, ok := m.fields[key]
	return f, ok
}

// Delete removes the field stored under key, if present.
func (m *FieldMap) Delete(key string) {
	if _, ok := m.fields[key]; !ok {
		return
	}
	delete(m.fields, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// Keys returns the field keys in insertion order.
func (m *FieldMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns the fields in insertion order.
func (m *FieldMap) Values() []Field {
	values := make([]Field, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.fields[k])
	}
	return values
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		fieldJSON, err := json.Marshal(m.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(fieldJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording keys in the order they appear
// in the document rather than Go map order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected JSON object, got %v", tok)
	}

	m.keys = nil
	m.fields = make(map[string]Field)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key, got %v", keyTok)
		}

		var f Field
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("fields: decoding field %q: %w", key, err)
		}
		m.Set(key, f)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
