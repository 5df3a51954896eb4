// internal/core/domain/record.go
package domain

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
)

// Record is one parsed input line: a JSON object whose key order is
// preserved through parse, mutation and serialization. Values are kept as
// raw JSON and only the configured URL fields are ever decoded, so fields
// the run does not touch round-trip byte-for-byte.
//
// A Record is owned by the worker processing its chunk and is never shared.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// ParseRecord parses one JSONL line into a Record. The line must contain a
// single JSON object and nothing else.
func ParseRecord(line []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrParse, "empty or truncated line")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Wrap(errors.ErrParse, "line is not a JSON object")
	}

	r := &Record{values: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrParse, "malformed object key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Wrap(errors.ErrParse, "object key is not a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(errors.ErrParse, "malformed value for key %q", key)
		}
		r.Set(key, raw)
	}

	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, errors.Wrap(errors.ErrParse, "unterminated object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Wrap(errors.ErrParse, "trailing data after object")
	}

	return r, nil
}

// Field returns the raw value of a field and whether it is present.
func (r *Record) Field(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether a field is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set stores a raw value, keeping the key's original position when it
// already exists and appending it otherwise.
func (r *Record) Set(key string, raw json.RawMessage) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = raw
}

// SetString replaces a field with a JSON string value.
func (r *Record) SetString(key, value string) {
	raw, _ := json.Marshal(value)
	r.Set(key, raw)
}

// SetStrings replaces a field with a JSON array of strings.
func (r *Record) SetStrings(key string, values []string) {
	raw, _ := json.Marshal(values)
	r.Set(key, raw)
}

// Delete removes a field entirely.
func (r *Record) Delete(key string) {
	if _, exists := r.values[key]; !exists {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the field names in their original order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Serialize writes the record back to one JSONL line (without trailing
// newline), preserving field order.
func (r *Record) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(r.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// AsString decodes a raw value as a JSON string.
func AsString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsStringArray decodes a raw value as a JSON array, keeping only its
// string elements in order. The second result reports whether the value is
// an array at all; non-string elements are dropped silently.
func AsStringArray(raw json.RawMessage) ([]string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false // not an array (null also lands here)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := AsString(e); ok {
			out = append(out, s)
		}
	}
	return out, true
}
