// Package document provides path lookup and safe coercion over the
// semi-structured JSON payloads that arrive from transcript and
// interview providers. Providers rename keys across versions, so every
// consumer resolves fields through ordered alias lists: the first alias
// present with a non-null value wins, and coercion failure yields an
// absent value rather than an error.
package document

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Document is a parsed JSON payload.
type Document map[string]any

// Parse decodes raw JSON into a Document.
func Parse(payload []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, eris.Wrap(err, "document: parse payload")
	}
	return d, nil
}

// Lookup walks a dot-separated path through nested objects. It reports
// whether the full path exists; the value may still be JSON null.
func (d Document) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		key := path[start:i]
		start = i + 1
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// First returns the value of the first alias path that is present with a
// non-null value, along with the path that matched.
func (d Document) First(paths ...string) (any, string, bool) {
	for _, p := range paths {
		if v, ok := d.Lookup(p); ok && v != nil {
			return v, p, true
		}
	}
	return nil, "", false
}

// FirstArray returns the first alias path holding a JSON array. Container
// keys drift between provider versions the same way leaf keys do.
func (d Document) FirstArray(paths ...string) ([]any, string, bool) {
	for _, p := range paths {
		v, ok := d.Lookup(p)
		if !ok {
			continue
		}
		if arr, ok := v.([]any); ok {
			return arr, p, true
		}
	}
	return nil, "", false
}

// Sub returns the object at path as a Document, when it is one.
func (d Document) Sub(path string) (Document, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Document(m), true
}

// AsDocument converts a raw array element into a Document.
func AsDocument(v any) (Document, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Document(m), true
}
