package parser

import (
	"errors"
	"strings"

	"github.com/goliatone/go-cooklang/internal/frontmatter"
	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/internal/metadata"
	"github.com/goliatone/go-cooklang/internal/recipe"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

const byteOrderMark = "\uFEFF"

// Parser turns recipe text into a recipe.Recipe. It holds no per-document
// state and is safe for concurrent use.
type Parser struct {
	logger interfaces.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New constructs a Parser. Without options it logs nothing.
func New(opts ...Option) *Parser {
	p := &Parser{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

var _ interfaces.RecipeParser = (*Parser)(nil)

// Parse parses a document with no slug.
func (p *Parser) Parse(source string) (*recipe.Recipe, error) {
	return p.ParseWithSlug(source, "")
}

// ParseWithSlug parses a whole document. Any *ParseError aborts the parse;
// malformed metadata values are dropped rather than reported.
func (p *Parser) ParseWithSlug(source, slug string) (*recipe.Recipe, error) {
	source = strings.TrimPrefix(source, byteOrderMark)

	doc, err := frontmatter.Extract(source)
	if err != nil {
		if errors.Is(err, frontmatter.ErrUnterminated) {
			return nil, errUnterminatedFrontMatter()
		}
		return nil, err
	}

	body := segmentBody(doc.Body)

	raw := metadata.NewFields()
	if doc.Fields != nil {
		raw.Merge(doc.Fields)
	}
	raw.Merge(body.derived)

	steps := make([]recipe.Step, 0, len(body.chunks))
	for _, chunk := range body.chunks {
		tokens, err := tokenize(chunk.text)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}
		steps = append(steps, recipe.Step{
			Index:   len(steps),
			Tokens:  tokens,
			Section: chunk.section,
		})
	}

	ingredients, cookware := summarize(steps)

	comments := body.comments
	if comments == nil {
		comments = []recipe.Comment{}
	}

	p.logger.Debug("recipe.parsed",
		"slug", slug,
		"front_matter", doc.Present,
		"steps", len(steps),
		"ingredients", len(ingredients),
		"cookware", len(cookware),
		"comments", len(comments),
	)

	return &recipe.Recipe{
		Slug:        slug,
		Metadata:    metadata.FromRaw(raw),
		Steps:       steps,
		Ingredients: ingredients,
		Cookware:    cookware,
		Comments:    comments,
	}, nil
}
