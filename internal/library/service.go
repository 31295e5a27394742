// Package library ties the loader, the parser and the recipe store
// together. Parsed recipes are cached by path and reused while the file's
// checksum is unchanged.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/internal/parser"
	"github.com/goliatone/go-cooklang/internal/recipe"
	"github.com/goliatone/go-cooklang/internal/store"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

const (
	TextCodeParseFailed    = "RECIPE_PARSE_FAILED"
	TextCodeRequestInvalid = "RECIPE_REQUEST_INVALID"
)

// ErrLoaderRequired reports a service constructed without a loader.
var ErrLoaderRequired = errors.New("library: loader is required")

// pathResolver is implemented by loaders that can map watcher paths onto
// the paths they report.
type pathResolver interface {
	Resolve(name string) (string, error)
}

// Service loads recipes through a loader and caches them in a store. It is
// safe for concurrent use; the store is its only shared state.
type Service struct {
	loader interfaces.RecipeLoader
	parser interfaces.RecipeParser
	store  store.Repository
	logger interfaces.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithParser overrides the default parser.
func WithParser(p interfaces.RecipeParser) Option {
	return func(s *Service) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithStore sets the cache. Without one every load parses.
func WithStore(repo store.Repository) Option {
	return func(s *Service) {
		s.store = repo
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Service reading documents from loader.
func NewService(loader interfaces.RecipeLoader, opts ...Option) (*Service, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	svc := &Service{
		loader: loader,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.parser == nil {
		svc.parser = parser.New(parser.WithLogger(svc.logger))
	}
	return svc, nil
}

// Load returns the recipe at path, reusing the cached parse when the file
// content is unchanged.
func (s *Service) Load(ctx context.Context, path string) (*recipe.Recipe, error) {
	return s.load(ctx, LoadRequest{Path: path})
}

// Refresh re-parses path regardless of the cache.
func (s *Service) Refresh(ctx context.Context, path string) (*recipe.Recipe, error) {
	return s.load(ctx, LoadRequest{Path: path, Force: true})
}

// LoadDirectory loads every recipe under dir. Files that fail to parse are
// reported in the joined error; the others are still returned.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*recipe.Recipe, error) {
	if err := (DirectoryRequest{Dir: dir}).Validate(); err != nil {
		return nil, err
	}
	docs, err := s.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, 0, len(docs))
	var failures []error
	for _, doc := range docs {
		parsed, err := s.loadDocument(ctx, doc, false)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failures = append(failures, err)
			continue
		}
		recipes = append(recipes, parsed)
	}

	s.logger.Debug("library.directory.loaded", "dir", dir, "recipes", len(recipes), "failures", len(failures))
	return recipes, errors.Join(failures...)
}

// Forget drops the cached entry for path. Forgetting an unknown path is not
// an error.
func (s *Service) Forget(ctx context.Context, path string) error {
	if err := (LoadRequest{Path: path}).Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	key, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("library: forget %s: %w", key, err)
	}
	logging.WithRecipeContext(s.logger, key, "", "forget").Debug("library.recipe.forgotten")
	return nil
}

// List returns the cached recipes sorted by path.
func (s *Service) List(ctx context.Context) ([]*recipe.Recipe, error) {
	if s.store == nil {
		return nil, nil
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	recipes := make([]*recipe.Recipe, 0, len(records))
	for _, record := range records {
		parsed, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, parsed)
	}
	return recipes, nil
}

func (s *Service) load(ctx context.Context, req LoadRequest) (*recipe.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.loader.LoadFile(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	return s.loadDocument(ctx, doc, req.Force)
}

func (s *Service) loadDocument(ctx context.Context, doc *interfaces.RecipeDocument, force bool) (*recipe.Recipe, error) {
	logger := logging.WithRecipeContext(s.logger, doc.Path, doc.Slug, "load")

	if s.store != nil && !force {
		record, err := s.store.Get(ctx, doc.Path)
		switch {
		case err == nil && record.Checksum == doc.Checksum:
			cached, decodeErr := decodeRecord(record)
			if decodeErr == nil {
				logger.Debug("library.cache.hit")
				return cached, nil
			}
			logger.Warn("library.cache.corrupt", "error", decodeErr)
		case err != nil && !errors.Is(err, store.ErrRecordNotFound):
			return nil, fmt.Errorf("library: read cache %s: %w", doc.Path, err)
		}
	}

	parsed, err := s.parser.ParseWithSlug(doc.Source, doc.Slug)
	if err != nil {
		logger.Debug("library.parse.failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, fmt.Sprintf("parse recipe %s", doc.Path)).
			WithTextCode(TextCodeParseFailed).
			WithMetadata(map[string]any{"path": doc.Path})
	}

	if s.store == nil {
		return parsed, nil
	}

	payload, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("library: encode %s: %w", doc.Path, err)
	}
	if _, err := s.store.Upsert(ctx, store.Record{
		Path:     doc.Path,
		Slug:     doc.Slug,
		Checksum: doc.Checksum,
		Title:    parsed.Title(),
		Recipe:   payload,
	}); err != nil {
		return nil, fmt.Errorf("library: store %s: %w", doc.Path, err)
	}
	logger.Debug("library.recipe.parsed", "steps", len(parsed.Steps))
	return parsed, nil
}

func (s *Service) resolve(path string) (string, error) {
	if resolver, ok := s.loader.(pathResolver); ok {
		return resolver.Resolve(path)
	}
	return path, nil
}

func decodeRecord(record store.Record) (*recipe.Recipe, error) {
	var parsed recipe.Recipe
	if err := json.Unmarshal(record.Recipe, &parsed); err != nil {
		return nil, fmt.Errorf("library: decode %s: %w", record.Path, err)
	}
	return &parsed, nil
}
