package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-cooklang/internal/metadata"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtractFrontMatter(t *testing.T) {
	doc, err := Extract(readFixture(t, "garlic_bread.cook"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !doc.Present {
		t.Fatalf("expected front matter to be present")
	}

	if got := doc.Fields.Keys(); !reflect.DeepEqual(got, []string{"title", "servings", "tags"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	if title, _ := doc.Fields.Get("title"); !title.Equal(metadata.String("Garlic Bread")) {
		t.Fatalf("unexpected title %v", title.Interface())
	}
	if servings, _ := doc.Fields.Get("servings"); !servings.Equal(metadata.Int(4)) {
		t.Fatalf("unexpected servings %v", servings.Interface())
	}
	if tags, _ := doc.Fields.Get("tags"); !tags.Equal(metadata.Strings("snack", "sharing")) {
		t.Fatalf("unexpected tags %v", tags.Interface())
	}

	wantBody := "Melt @butter{50%g} with @garlic{2%clove}.\n\nBrush over #loaf and bake for ~10min.\n"
	if doc.Body != wantBody {
		t.Fatalf("unexpected body %q", doc.Body)
	}
}

func TestExtractWithoutFrontMatter(t *testing.T) {
	source := "Boil @water{1%l}.\n---\n"
	doc, err := Extract(source)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc.Present || doc.Fields.Len() != 0 {
		t.Fatalf("expected no front matter, got %+v", doc)
	}
	if doc.Body != source {
		t.Fatalf("body must be the whole source, got %q", doc.Body)
	}
}

func TestExtractUnterminated(t *testing.T) {
	_, err := Extract("---\ntitle: Soup\n\nBoil @water{1%l}.\n")
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated, got %v", err)
	}
}

func TestExtractEmptyBlockAndCRLF(t *testing.T) {
	doc, err := Extract("---\r\n---\r\n\r\nStir.")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !doc.Present || doc.Fields.Len() != 0 {
		t.Fatalf("expected empty front matter, got %+v", doc.Fields.Keys())
	}
	if doc.Body != "Stir." {
		t.Fatalf("unexpected body %q", doc.Body)
	}
}

func TestParseBlockCasting(t *testing.T) {
	fields := ParseBlock(`title: "42"
servings: 2.7
draft: TRUE
spicy: false
tags: [ bread , garlic ]
empty: []
note: plain text: with colon
course:
`)

	cases := map[string]metadata.Value{
		"title":    metadata.String("42"),
		"servings": metadata.Int(2),
		"draft":    metadata.Bool(true),
		"spicy":    metadata.Bool(false),
		"tags":     metadata.Strings("bread", "garlic"),
		"empty":    metadata.List(),
		"note":     metadata.String("plain text: with colon"),
		"course":   metadata.List(),
	}
	for key, want := range cases {
		got, ok := fields.Get(key)
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if !got.Equal(want) {
			t.Fatalf("%s = %#v, want %#v", key, got.Interface(), want.Interface())
		}
	}
}

func TestParseBlockListItemsAreCast(t *testing.T) {
	fields := ParseBlock("steps:\n - 1\n - \"two\"\n - yes\nafter: x\n - ignored\n")

	steps, _ := fields.Get("steps")
	want := metadata.List(metadata.Int(1), metadata.String("two"), metadata.String("yes"))
	if !steps.Equal(want) {
		t.Fatalf("unexpected steps %v", steps.Interface())
	}
	if after, _ := fields.Get("after"); !after.Equal(metadata.String("x")) {
		t.Fatalf("list items after a scalar entry must be ignored, got %v", after.Interface())
	}
}

func TestParseBlockNestedMapping(t *testing.T) {
	fields := ParseBlock("source:\n  name: Grandma\n  url: https://example.test\ntitle: Bread\n")

	source, _ := fields.Get("source")
	nested, ok := source.AsMap()
	if !ok {
		t.Fatalf("expected source mapping, got %v", source.Kind())
	}
	if !nested["name"].Equal(metadata.String("Grandma")) || !nested["url"].Equal(metadata.String("https://example.test")) {
		t.Fatalf("unexpected nested mapping %v", source.Interface())
	}
	if title, _ := fields.Get("title"); !title.Equal(metadata.String("Bread")) {
		t.Fatalf("expected top-level title after mapping, got %v", title.Interface())
	}
}
