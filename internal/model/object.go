/*
PURPOSE:
  Ordered JSON object backing raw probe records.
  Keeps source key order and raw values.

REQUIREMENTS:
  Implementation-discovered:
  - Unknown fields (diagnostics, tool specific extras) must round-trip
    verbatim into summary.json.
  - Subtests are displayed in the order the probe wrote them.
  - Display text and truthiness follow the conventions of the probe
    tooling: null, false, 0, "", [] and {} count as absent.

ERROR HANDLING:
  - ErrNotObject for documents that are valid JSON but not an object.

IMPLEMENTATION RULES:
  - Decode with the encoding/json token API; never through map[string]any,
    which loses order and number text.

RELATED FILES:
  - internal/model/types.go
*/

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotObject is returned when a JSON document that must be an object is
// some other kind of value (array, string, null, ...).
var ErrNotObject = errors.New("json value is not an object")

// Object is a JSON object that keeps its keys in the order they appeared in
// the source document. Values are held as raw JSON so records written by
// external tools round-trip verbatim, including fields this package knows
// nothing about.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// ParseObject decodes data into an Object.
func ParseObject(data []byte) (Object, error) {
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return Object{}, err
	}
	return o, nil
}

// Keys returns the keys in source order.
func (o Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o Object) Len() int {
	return len(o.keys)
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	raw, ok := o.values[key]
	if !ok {
		return nil, false
	}
	return Value(raw), true
}

// Text returns the display text of key, or "" when the key is absent.
func (o Object) Text(key string) string {
	v, ok := o.Get(key)
	if !ok {
		return ""
	}
	return v.Text()
}

// Truthy reports whether key is present with a truthy value.
func (o Object) Truthy(key string) bool {
	v, ok := o.Get(key)
	return ok && v.Truthy()
}

// SetRaw stores raw under key. A new key is appended; an existing key keeps
// its position.
func (o *Object) SetRaw(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// SetString stores a JSON string under key.
func (o *Object) SetString(key, value string) {
	o.SetRaw(key, encodeString(value))
}

// UnmarshalJSON implements json.Unmarshaler. Duplicate keys keep the first
// position and the last value.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	parsed := Object{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		parsed.SetRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = parsed
	return nil
}

// MarshalJSON implements json.Marshaler, emitting keys in stored order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(key))
		buf.WriteByte(':')
		raw := o.values[key]
		if len(bytes.TrimSpace(raw)) == 0 {
			raw = json.RawMessage("null")
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Value is a single raw JSON value taken from an Object.
type Value json.RawMessage

func (v Value) trimmed() []byte {
	return bytes.TrimSpace(v)
}

// IsNull reports whether the value is JSON null (or empty).
func (v Value) IsNull() bool {
	t := v.trimmed()
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// Text renders the value for display: strings without quotes, numbers in
// their source form, null as "", and arrays or objects as compact JSON.
func (v Value) Text() string {
	t := v.trimmed()
	if len(t) == 0 {
		return ""
	}
	switch t[0] {
	case 'n':
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return string(t)
		}
		return s
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, t); err != nil {
			return string(t)
		}
		return buf.String()
	default:
		return string(t)
	}
}

// Truthy reports whether the value counts as present for display purposes.
// null, false, zero, the empty string, [] and {} are not truthy.
func (v Value) Truthy() bool {
	t := v.trimmed()
	if len(t) == 0 {
		return false
	}
	switch t[0] {
	case 'n', 'f':
		return false
	case 't':
		return true
	case '"':
		return v.Text() != ""
	case '[':
		var items []json.RawMessage
		return json.Unmarshal(t, &items) == nil && len(items) > 0
	case '{':
		var fields map[string]json.RawMessage
		return json.Unmarshal(t, &fields) == nil && len(fields) > 0
	default:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			// Out-of-range numbers are still non-zero.
			return true
		}
		return f != 0
	}
}

// Object decodes the value as an Object.
func (v Value) Object() (Object, bool) {
	t := v.trimmed()
	if len(t) == 0 || t[0] != '{' {
		return Object{}, false
	}
	o, err := ParseObject(t)
	if err != nil {
		return Object{}, false
	}
	return o, true
}

// Array decodes the value as a JSON array.
func (v Value) Array() ([]Value, bool) {
	t := v.trimmed()
	if len(t) == 0 || t[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(t, &items); err != nil {
		return nil, false
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Value(item)
	}
	return out, true
}

func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
