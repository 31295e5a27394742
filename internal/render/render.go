// Package render serialises parsed recipes back into Cooklang markup,
// Markdown or HTML.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cooklang/internal/recipe"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

// Output formats understood by ForFormat.
const (
	FormatCooklang = "cook"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ErrUnknownFormat reports a format name ForFormat does not support.
var ErrUnknownFormat = errors.New("render: unknown format")

// Func adapts a plain function to interfaces.RecipeRenderer.
type Func func(r *recipe.Recipe) ([]byte, error)

// Render calls f.
func (f Func) Render(r *recipe.Recipe) ([]byte, error) {
	return f(r)
}

// ForFormat returns the renderer for format. Options only affect HTML.
func ForFormat(format string, opts interfaces.ParseOptions) (interfaces.RecipeRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCooklang, "cooklang", "":
		return Func(func(r *recipe.Recipe) ([]byte, error) {
			return []byte(Cooklang(r)), nil
		}), nil
	case FormatMarkdown, "md":
		return Func(func(r *recipe.Recipe) ([]byte, error) {
			return []byte(Markdown(r)), nil
		}), nil
	case FormatHTML:
		parser := NewGoldmarkParser(opts)
		return Func(func(r *recipe.Recipe) ([]byte, error) {
			return HTML(r, parser)
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
