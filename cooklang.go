// Package cooklang parses recipes written in the Cooklang markup language
// into a structured model of metadata, steps, ingredients, cookware, timers
// and comments.
//
// The package-level Parse functions are pure and safe for concurrent use.
// New builds a Module that adds file loading, a parsed-recipe cache,
// rendering and directory watching on top of the parser.
package cooklang

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goliatone/go-cooklang/internal/loader"
	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/parser"
	"github.com/goliatone/go-cooklang/internal/recipe"
	"github.com/goliatone/go-cooklang/internal/render"
	"github.com/goliatone/go-cooklang/internal/schema"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

type (
	Recipe               = recipe.Recipe
	Step                 = recipe.Step
	Comment              = recipe.Comment
	Ingredient           = recipe.Ingredient
	IngredientOccurrence = recipe.IngredientOccurrence
	Cookware             = recipe.Cookware
	CookwareOccurrence   = recipe.CookwareOccurrence
	Token                = recipe.Token
	TokenKind            = recipe.TokenKind
	TextToken            = recipe.TextToken
	IngredientToken      = recipe.IngredientToken
	CookwareToken        = recipe.CookwareToken
	TimerToken           = recipe.TimerToken

	Metadata = metadata.Metadata
	Value    = metadata.Value

	// ParseError is the only error Parse returns. Position is -1 when the
	// fault has no location.
	ParseError = parser.ParseError

	// SchemaError lists the JSON Schema violations of a recipe export.
	SchemaError = schema.ValidationError
)

var defaultParser = parser.New()

// Parse parses a complete recipe document.
func Parse(source string) (*Recipe, error) {
	return defaultParser.Parse(source)
}

// ParseWithSlug parses source and records slug on the result.
func ParseWithSlug(source, slug string) (*Recipe, error) {
	return defaultParser.ParseWithSlug(source, slug)
}

// ParseFile reads and parses the file at path, using the file name stem as
// the slug. A missing file reports a not-found error carrying the
// RECIPE_NOT_FOUND text code.
func ParseFile(path string) (*Recipe, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	l := loader.New(os.DirFS(dir), loader.Config{})
	doc, err := l.LoadFile(context.Background(), name)
	if err != nil {
		return nil, err
	}
	return defaultParser.ParseWithSlug(doc.Source, doc.Slug)
}

// Render serialises r as Cooklang, Markdown or HTML. HTML output drops raw
// HTML found in recipe text.
func Render(r *Recipe, format string) ([]byte, error) {
	renderer, err := render.ForFormat(format, interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		return nil, err
	}
	return renderer.Render(r)
}

// ValidateSchema checks the JSON export of r against the recipe schema.
func ValidateSchema(r *Recipe) error {
	return schema.Validate(r)
}
