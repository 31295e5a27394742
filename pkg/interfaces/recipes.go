package interfaces

import (
	"context"
	"time"

	"github.com/goliatone/go-cooklang/internal/recipe"
)

// RecipeParser turns raw recipe text into the structured model. The slug is
// optional and usually derived from the file name by a RecipeLoader.
type RecipeParser interface {
	Parse(source string) (*recipe.Recipe, error)
	ParseWithSlug(source, slug string) (*recipe.Recipe, error)
}

// RecipeRenderer serialises a parsed recipe into an output format.
type RecipeRenderer interface {
	Render(r *recipe.Recipe) ([]byte, error)
}

// RecipeLoader reads recipe documents from storage without parsing them.
type RecipeLoader interface {
	LoadFile(ctx context.Context, path string) (*RecipeDocument, error)
	LoadDirectory(ctx context.Context, dir string) ([]*RecipeDocument, error)
}

// RecipeDocument is a recipe file as read from disk. Checksum is the hex
// SHA-256 of Source and drives cache invalidation.
type RecipeDocument struct {
	Path     string
	Slug     string
	Source   string
	Checksum string
	ModTime  time.Time
}
