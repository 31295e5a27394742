package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cooklang/internal/parser"
	"github.com/goliatone/go-cooklang/internal/schema"
)

func TestValidateParsedRecipe(t *testing.T) {
	source := "---\ntitle: Toast\nservings: 2\ntags: [breakfast]\n---\n// quick\n== Main ==\nToast @bread{2%slices} in the #toaster for ~{3%minutes}.\n\nServe with @butter?{} after ~rest."
	r, err := parser.New().ParseWithSlug(source, "toast")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := schema.Validate(r); err != nil {
		t.Fatalf("expected parsed recipe to validate, got %v", err)
	}
}

func TestValidateJSONReportsIssues(t *testing.T) {
	doc := `{
		"metadata": {"servings": "four", "tags": ["ok", ""]},
		"steps": [{"index": 0, "text": "", "tokens": []}],
		"ingredients": [{"name": "", "occurrences": []}],
		"cookware": [],
		"comments": [{"text": "x", "line": 0}]
	}`

	err := schema.ValidateJSON([]byte(doc))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, schema.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := schema.Issues(err)
	locations := map[string]bool{}
	for _, issue := range issues {
		locations[issue.Location] = true
	}
	for _, want := range []string{
		"/metadata/servings",
		"/metadata/tags/1",
		"/steps/0/tokens",
		"/ingredients/0/name",
		"/ingredients/0/occurrences",
		"/comments/0/line",
	} {
		if !locations[want] {
			t.Fatalf("expected issue at %s, got %+v", want, issues)
		}
	}
	if !strings.Contains(err.Error(), "#/metadata/servings") {
		t.Fatalf("expected location in message, got %s", err.Error())
	}
}

func TestValidateJSONRejectsUnknownTokenType(t *testing.T) {
	doc := `{"metadata": {}, "steps": [{"index": 0, "text": "x", "tokens": [{"type": "spice"}]}], "ingredients": [], "cookware": [], "comments": []}`
	if err := schema.ValidateJSON([]byte(doc)); err == nil {
		t.Fatalf("expected unknown token type to fail")
	}
}

func TestValidateJSONMalformed(t *testing.T) {
	err := schema.ValidateJSON([]byte("{"))
	var validationErr *schema.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Issues) != 1 {
		t.Fatalf("expected a single issue for malformed JSON, got %v", err)
	}
}

func TestSourceIsACopy(t *testing.T) {
	first := schema.Source()
	first[0] = 'x'
	if schema.Source()[0] == 'x' {
		t.Fatalf("expected Source to return a copy")
	}
}
