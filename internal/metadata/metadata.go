package metadata

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-cooklang/internal/quantity"
)

// Metadata is the canonical view of a recipe's metadata. Accessors are pure
// reads over the underlying fields.
type Metadata struct {
	fields *Fields
}

// New wraps already canonical fields.
func New(fields *Fields) Metadata {
	return Metadata{fields: fields.Clone()}
}

// FromRaw canonicalizes raw fields.
func FromRaw(raw *Fields) Metadata {
	return Metadata{fields: Canonicalize(raw)}
}

// Get returns the value stored under key.
func (m Metadata) Get(key string) (Value, bool) {
	return m.fields.Get(key)
}

// All returns a copy of every field.
func (m Metadata) All() *Fields {
	return m.fields.Clone()
}

// Len reports the number of fields.
func (m Metadata) Len() int {
	return m.fields.Len()
}

func (m Metadata) Title() (string, bool)       { return m.Text(KeyTitle) }
func (m Metadata) Source() (string, bool)      { return m.Text(KeySource) }
func (m Metadata) Author() (string, bool)      { return m.Text(KeyAuthor) }
func (m Metadata) SourceURL() (string, bool)   { return m.Text(KeySourceURL) }
func (m Metadata) Course() (string, bool)      { return m.Text(KeyCourse) }
func (m Metadata) Locale() (string, bool)      { return m.Text(KeyLocale) }
func (m Metadata) Difficulty() (string, bool)  { return m.Text(KeyDifficulty) }
func (m Metadata) Cuisine() (string, bool)     { return m.Text(KeyCuisine) }
func (m Metadata) Image() (string, bool)       { return m.Text(KeyImage) }
func (m Metadata) Description() (string, bool) { return m.Text(KeyDescription) }

func (m Metadata) Servings() (int, bool)  { return m.Int(KeyServings) }
func (m Metadata) TotalTime() (int, bool) { return m.Int(KeyTotalTime) }
func (m Metadata) PrepTime() (int, bool)  { return m.Int(KeyPrepTime) }
func (m Metadata) CookTime() (int, bool)  { return m.Int(KeyCookTime) }

func (m Metadata) Tags() []string   { return m.List(KeyTags) }
func (m Metadata) Diet() []string   { return m.List(KeyDiet) }
func (m Metadata) Images() []string { return m.List(KeyImages) }

// Text returns the scalar stored under key rendered as text.
func (m Metadata) Text(key string) (string, bool) {
	value, ok := m.fields.Get(key)
	if !ok {
		return "", false
	}
	return value.Scalar()
}

// Int returns the integer stored under key. Numeric strings are truncated.
func (m Metadata) Int(key string) (int, bool) {
	value, ok := m.fields.Get(key)
	if !ok {
		return 0, false
	}
	if n, ok := value.AsInt(); ok {
		return n, true
	}
	if text, ok := value.AsString(); ok {
		return quantity.Truncate(text)
	}
	return 0, false
}

// List returns the list stored under key as strings. A comma separated
// string is split; non-scalar items are dropped.
func (m Metadata) List(key string) []string {
	value, ok := m.fields.Get(key)
	if !ok {
		return nil
	}
	if text, ok := value.AsString(); ok {
		var out []string
		for _, part := range strings.Split(text, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	items, ok := value.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.Scalar(); ok && text != "" {
			out = append(out, text)
		}
	}
	return out
}

// MarshalJSON encodes the fields as a JSON object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.fields)
}

// UnmarshalJSON decodes already canonical fields.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	fields := NewFields()
	if err := json.Unmarshal(data, fields); err != nil {
		return err
	}
	m.fields = fields
	return nil
}

// MarshalYAML encodes the fields as plain data.
func (m Metadata) MarshalYAML() (any, error) {
	return m.fields.MarshalYAML()
}
