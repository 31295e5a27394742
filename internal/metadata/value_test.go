package metadata

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValueJSON(t *testing.T) {
	value := Map(map[string]Value{
		"tags":     Strings("a", "b"),
		"servings": Int(2),
		"draft":    Bool(false),
		"note":     Null(),
	})

	encoded, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"draft":false,"note":null,"servings":2,"tags":["a","b"]}`
	if string(encoded) != want {
		t.Fatalf("unexpected json %s", encoded)
	}

	var decoded Value
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(value) {
		t.Fatalf("decoded value differs: %v", decoded.Interface())
	}
}

func TestValueYAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]Value{"tags": Strings("snack")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "tags:\n    - snack\n" {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestValueEmptiness(t *testing.T) {
	if !String("  ").IsEmpty() || !List().IsEmpty() || !Null().IsEmpty() {
		t.Fatalf("expected blank values to be empty")
	}
	if Int(0).IsEmpty() || Bool(false).IsEmpty() {
		t.Fatalf("zero scalars are values")
	}
}
