package metadata

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFieldsJSONKeepsInsertionOrder(t *testing.T) {
	fields := NewFields()
	fields.Set("servings", Int(4))
	fields.Set("course", String("dinner"))
	fields.Set("author", String("Ana"))
	fields.Set("tags", Strings("quick", "vegan"))

	encoded, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"servings":4,"course":"dinner","author":"Ana","tags":["quick","vegan"]}`
	if string(encoded) != want {
		t.Fatalf("unexpected json %s", encoded)
	}

	decoded := NewFields()
	if err := json.Unmarshal(encoded, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := decoded.Keys(); !reflect.DeepEqual(got, fields.Keys()) {
		t.Fatalf("key order changed: %v", got)
	}
	for _, key := range fields.Keys() {
		want, _ := fields.Get(key)
		got, _ := decoded.Get(key)
		if !got.Equal(want) {
			t.Fatalf("%s = %v, want %v", key, got.Interface(), want.Interface())
		}
	}
}

func TestFieldsUnmarshalJSON(t *testing.T) {
	empty := NewFields()
	empty.Set("stale", Bool(true))
	if err := empty.UnmarshalJSON([]byte(`null`)); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("expected null to reset fields, got %v", empty.Keys())
	}

	if err := json.Unmarshal([]byte(`["a"]`), NewFields()); err == nil {
		t.Fatal("expected error for non-object input")
	}

	fields := NewFields()
	if err := json.Unmarshal([]byte(`{}`), fields); err != nil || fields.Len() != 0 {
		t.Fatalf("unmarshal empty object: %d keys, %v", fields.Len(), err)
	}
	encoded, err := json.Marshal(fields)
	if err != nil || string(encoded) != "{}" {
		t.Fatalf("marshal empty = %s, %v", encoded, err)
	}
}
