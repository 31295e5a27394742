package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Fields is an insertion-ordered string to Value mapping. The front-matter
// reader produces one per document and the order survives JSON encoding.
// When two keys collide after normalization the later key wins.
type Fields struct {
	keys   []string
	values map[string]Value
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{values: map[string]Value{}}
}

// Set stores value under key. Existing keys keep their original position.
func (f *Fields) Set(key string, value Value) {
	if f.values == nil {
		f.values = map[string]Value{}
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}
	value, ok := f.values[key]
	return value, ok
}

// Delete removes key from the mapping.
func (f *Fields) Delete(key string) {
	if f == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, existing := range f.keys {
		if existing == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// Len reports the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Merge copies every entry of other into f, overwriting on collision and
// appending new keys after the existing ones.
func (f *Fields) Merge(other *Fields) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		f.Set(key, other.values[key])
	}
}

// Clone returns an independent copy.
func (f *Fields) Clone() *Fields {
	out := NewFields()
	if f == nil {
		return out
	}
	out.Merge(f)
	return out
}

// Map returns the entries as a plain map.
func (f *Fields) Map() map[string]Value {
	out := make(map[string]Value, f.Len())
	if f == nil {
		return out
	}
	for key, value := range f.values {
		out[key] = value
	}
	return out
}

// SortedKeys returns keys in lexical order.
func (f *Fields) SortedKeys() []string {
	keys := f.Keys()
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the mapping as a JSON object with keys in insertion
// order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[key])
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", key, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping keys in document order. A
// JSON null yields an empty mapping.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	*f = Fields{values: map[string]Value{}}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata: unexpected key %v", tok)
		}
		var value Value
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("metadata %q: %w", key, err)
		}
		f.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the mapping as plain data.
func (f *Fields) MarshalYAML() (any, error) {
	out := make(map[string]any, f.Len())
	for _, key := range f.Keys() {
		out[key] = f.values[key].Interface()
	}
	return out, nil
}
