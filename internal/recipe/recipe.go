// Package recipe holds the parsed recipe model. A Recipe owns every value it
// references; callers treat it as read-only once the parser returns it.
package recipe

import (
	"strings"

	"github.com/goliatone/go-cooklang/internal/metadata"
)

// Recipe is a fully parsed document.
type Recipe struct {
	Slug        string            `json:"slug,omitempty" yaml:"slug,omitempty"`
	Metadata    metadata.Metadata `json:"metadata" yaml:"metadata"`
	Steps       []Step            `json:"steps" yaml:"steps"`
	Ingredients []Ingredient      `json:"ingredients" yaml:"ingredients"`
	Cookware    []Cookware        `json:"cookware" yaml:"cookware"`
	Comments    []Comment         `json:"comments" yaml:"comments"`
}

// Step is one instruction. Section is empty before the first section header.
type Step struct {
	Index   int     `json:"index" yaml:"index"`
	Tokens  []Token `json:"-" yaml:"-"`
	Section string  `json:"section,omitempty" yaml:"section,omitempty"`
}

// Comment is a "//" or ">" line. Line counts body lines from 1.
type Comment struct {
	Text string `json:"text" yaml:"text"`
	Line int    `json:"line" yaml:"line"`
}

// Ingredient is an index entry aggregating every occurrence of one
// ingredient name, compared case-insensitively.
type Ingredient struct {
	Name        string                 `json:"name" yaml:"name"`
	Occurrences []IngredientOccurrence `json:"occurrences" yaml:"occurrences"`
}

// IngredientOccurrence records where and how an ingredient was used.
type IngredientOccurrence struct {
	Step        int      `json:"step" yaml:"step"`
	Quantity    *float64 `json:"quantity" yaml:"quantity"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Optional    bool     `json:"optional" yaml:"optional"`
	RawQuantity string   `json:"raw_quantity" yaml:"raw_quantity"`
	Section     string   `json:"section,omitempty" yaml:"section,omitempty"`
}

// Cookware is an index entry aggregating every occurrence of one cookware name.
type Cookware struct {
	Name        string               `json:"name" yaml:"name"`
	Occurrences []CookwareOccurrence `json:"occurrences" yaml:"occurrences"`
}

// CookwareOccurrence records the step a cookware item was used in.
type CookwareOccurrence struct {
	Step    int    `json:"step" yaml:"step"`
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Title returns the canonical title, falling back to the slug.
func (r *Recipe) Title() string {
	if title, ok := r.Metadata.Title(); ok {
		return title
	}
	return r.Slug
}

// Servings returns the canonical servings count.
func (r *Recipe) Servings() (int, bool) {
	return r.Metadata.Servings()
}

// Tags returns the canonical tag list.
func (r *Recipe) Tags() []string {
	return r.Metadata.Tags()
}

// IngredientNames lists ingredient display names in first-seen order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ingredient := range r.Ingredients {
		names = append(names, ingredient.Name)
	}
	return names
}

// CookwareNames lists cookware display names in first-seen order.
func (r *Recipe) CookwareNames() []string {
	names := make([]string, 0, len(r.Cookware))
	for _, item := range r.Cookware {
		names = append(names, item.Name)
	}
	return names
}

// Sections lists distinct section names in order of appearance.
func (r *Recipe) Sections() []string {
	var sections []string
	seen := map[string]struct{}{}
	for _, step := range r.Steps {
		if step.Section == "" {
			continue
		}
		if _, ok := seen[step.Section]; ok {
			continue
		}
		seen[step.Section] = struct{}{}
		sections = append(sections, step.Section)
	}
	return sections
}

// Text renders the step back into markup, trimmed.
func (s Step) Text() string {
	var b strings.Builder
	for _, token := range s.Tokens {
		b.WriteString(token.Cooklang())
	}
	return strings.TrimSpace(b.String())
}

// Ingredients returns the ingredient tokens of the step in order.
func (s Step) Ingredients() []IngredientToken {
	var out []IngredientToken
	for _, token := range s.Tokens {
		if ingredient, ok := token.(IngredientToken); ok {
			out = append(out, ingredient)
		}
	}
	return out
}

// Timers returns the timer tokens of the step in order.
func (s Step) Timers() []TimerToken {
	var out []TimerToken
	for _, token := range s.Tokens {
		if timer, ok := token.(TimerToken); ok {
			out = append(out, timer)
		}
	}
	return out
}

// Cookware returns the cookware tokens of the step in order.
func (s Step) Cookware() []CookwareToken {
	var out []CookwareToken
	for _, token := range s.Tokens {
		if item, ok := token.(CookwareToken); ok {
			out = append(out, item)
		}
	}
	return out
}

// Ingredient returns the index entry for name, compared case-insensitively.
func (r *Recipe) Ingredient(name string) (Ingredient, bool) {
	for _, ingredient := range r.Ingredients {
		if strings.EqualFold(ingredient.Name, name) {
			return ingredient, true
		}
	}
	return Ingredient{}, false
}
