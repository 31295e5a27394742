package cooklang_test

import (
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	cooklang "github.com/goliatone/go-cooklang"
)

func TestParseBuildsStepsAndIndexes(t *testing.T) {
	r, err := cooklang.Parse("Crack @eggs{3} into a #bowl and whisk for ~{2%minutes}.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Steps) != 1 || len(r.Ingredients) != 1 || len(r.Cookware) != 1 {
		t.Fatalf("unexpected recipe %+v", r)
	}
	timers := r.Steps[0].Timers()
	if len(timers) != 1 || timers[0].Duration == nil || *timers[0].Duration != 2 || timers[0].Unit != "minutes" {
		t.Fatalf("unexpected timers %+v", timers)
	}
}

func TestParseReturnsParseError(t *testing.T) {
	_, err := cooklang.Parse("Add @salt and stir.")
	var parseErr *cooklang.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Position != 4 {
		t.Fatalf("expected position 4, got %d", parseErr.Position)
	}
}

func TestParseFileUsesStemAsSlug(t *testing.T) {
	r, err := cooklang.ParseFile("testdata/Garlic Bread.cook")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if r.Slug != "Garlic Bread" || r.Title() != "Garlic Bread" {
		t.Fatalf("unexpected slug/title %q/%q", r.Slug, r.Title())
	}
	if servings, ok := r.Servings(); !ok || servings != 4 {
		t.Fatalf("expected 4 servings, got %d (%v)", servings, ok)
	}
}

func TestParseFileMissingIsNotFound(t *testing.T) {
	_, err := cooklang.ParseFile("testdata/missing.cook")
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderAndValidateSchema(t *testing.T) {
	r, err := cooklang.ParseFile("testdata/Garlic Bread.cook")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if err := cooklang.ValidateSchema(r); err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}

	out, err := cooklang.Render(r, cooklang.FormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "# Garlic Bread\n") {
		t.Fatalf("unexpected markdown:\n%s", out)
	}

	if _, err := cooklang.Render(r, "pdf"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestRenderHTMLKeepsRecipeMarkupLiteral(t *testing.T) {
	r, err := cooklang.Parse("Warm @milk{1%cup} <script>alert(1)</script> gently.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := cooklang.Render(r, cooklang.FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected raw HTML to be neutralised, got %s", out)
	}
}
