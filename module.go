package cooklang

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cooklang/internal/library"
	"github.com/goliatone/go-cooklang/internal/loader"
	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/internal/logging/console"
	"github.com/goliatone/go-cooklang/internal/logging/gologger"
	"github.com/goliatone/go-cooklang/internal/parser"
	"github.com/goliatone/go-cooklang/internal/render"
	"github.com/goliatone/go-cooklang/internal/store"
	"github.com/goliatone/go-cooklang/internal/watch"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

// TextCodeConfigInvalid tags configuration rejected by New.
const TextCodeConfigInvalid = "CONFIG_INVALID"

const schemaTimeout = 10 * time.Second

// ErrWatchDisabled reports Watch called while the watch feature is off.
var ErrWatchDisabled = errors.New("cooklang: watch feature is disabled")

type (
	StoreRecord = store.Record
	ChangeEvent = store.ChangeEvent
	ChangeType  = store.ChangeType
	Repository  = store.Repository
)

const (
	ChangeCreated = store.ChangeCreated
	ChangeUpdated = store.ChangeUpdated
	ChangeDeleted = store.ChangeDeleted
)

// Option overrides a collaborator New would otherwise build from Config.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider interfaces.LoggerProvider
	fsys     fs.FS
	repo     store.Repository
}

// WithLoggerProvider routes module logs through provider regardless of the
// logging configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) { o.provider = provider }
}

// WithFS reads recipes from fsys instead of the loader base path.
func WithFS(fsys fs.FS) Option {
	return func(o *moduleOptions) { o.fsys = fsys }
}

// WithRepository supplies the recipe cache.
func WithRepository(repo store.Repository) Option {
	return func(o *moduleOptions) { o.repo = repo }
}

// Module wires the loader, parser, cache and renderer behind one handle.
type Module struct {
	cfg      Config
	root     string
	logger   interfaces.Logger
	provider interfaces.LoggerProvider
	loader   *loader.Loader
	parser   *parser.Parser
	repo     store.Repository
	db       *bun.DB
	library  *library.Service
	renderer interfaces.RecipeRenderer
}

// New validates cfg and assembles a Module.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid cooklang configuration").
			WithTextCode(TextCodeConfigInvalid)
	}

	options := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	provider := options.provider
	if provider == nil && cfg.Features.Logger {
		built, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	root, err := filepath.Abs(cfg.Loader.BasePath)
	if err != nil {
		return nil, fmt.Errorf("cooklang: resolve base path: %w", err)
	}
	fsys := options.fsys
	if fsys == nil {
		fsys = os.DirFS(root)
	}

	m := &Module{
		cfg:      cfg,
		root:     root,
		logger:   logging.RootLogger(provider),
		provider: provider,
		parser:   parser.New(parser.WithLogger(logging.ParserLogger(provider))),
		loader: loader.New(fsys, loader.Config{
			BasePath:  root,
			Pattern:   cfg.Loader.Pattern,
			Recursive: cfg.Loader.Recursive,
			Logger:    logging.LoaderLogger(provider),
		}),
	}

	m.renderer, err = render.ForFormat(cfg.Render.Format, interfaces.ParseOptions{
		Extensions: cfg.Render.Extensions,
		HardWraps:  cfg.Render.HardWraps,
		SafeMode:   cfg.Render.SafeMode,
	})
	if err != nil {
		return nil, err
	}

	m.repo = options.repo
	if m.repo == nil && cfg.Store.Enabled {
		if err := m.openStore(); err != nil {
			return nil, err
		}
	}

	libOpts := []library.Option{
		library.WithParser(m.parser),
		library.WithLogger(logging.LibraryLogger(provider)),
	}
	if m.repo != nil {
		libOpts = append(libOpts, library.WithStore(m.repo))
	}
	m.library, err = library.NewService(m.loader, libOpts...)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("cooklang.module.ready",
		"base_path", root,
		"store", m.repo != nil,
		"render_format", cfg.Render.Format,
	)
	return m, nil
}

func (m *Module) openStore() error {
	driver := strings.ToLower(strings.TrimSpace(m.cfg.Store.Driver))
	if driver == "" || driver == DriverMemory {
		m.repo = store.NewMemoryRepository()
		return nil
	}

	db, err := store.OpenDB(driver, m.cfg.Store.DSN)
	if err != nil {
		return err
	}
	repo := store.NewBunRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("cooklang: prepare store: %w", err)
	}

	logging.StoreLogger(m.provider).Debug("store.opened", "driver", driver)
	m.db = db
	m.repo = repo
	return nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Parser returns the module parser.
func (m *Module) Parser() interfaces.RecipeParser {
	return m.parser
}

// Repository returns the recipe cache, or nil when the store is disabled.
func (m *Module) Repository() Repository {
	return m.repo
}

// Parse parses source with the module parser.
func (m *Module) Parse(source string) (*Recipe, error) {
	return m.parser.Parse(source)
}

// Load reads and parses path relative to the loader base path, reusing the
// cached result while the file is unchanged.
func (m *Module) Load(ctx context.Context, path string) (*Recipe, error) {
	return m.library.Load(ctx, path)
}

// LoadDirectory loads every matching recipe under dir. Parse failures are
// joined into the error while the successful recipes are still returned.
func (m *Module) LoadDirectory(ctx context.Context, dir string) ([]*Recipe, error) {
	return m.library.LoadDirectory(ctx, dir)
}

// Refresh re-parses path regardless of the cache.
func (m *Module) Refresh(ctx context.Context, path string) (*Recipe, error) {
	return m.library.Refresh(ctx, path)
}

// Forget drops path from the cache.
func (m *Module) Forget(ctx context.Context, path string) error {
	return m.library.Forget(ctx, path)
}

// Recipes returns every cached recipe sorted by path.
func (m *Module) Recipes(ctx context.Context) ([]*Recipe, error) {
	return m.library.List(ctx)
}

// Render serialises r in the configured output format.
func (m *Module) Render(r *Recipe) ([]byte, error) {
	return m.renderer.Render(r)
}

// Watch keeps the cache in sync with dir until ctx is cancelled. Changed
// files are reloaded and removed files are forgotten.
func (m *Module) Watch(ctx context.Context, dir string) error {
	if !m.cfg.Features.Watch {
		return ErrWatchDisabled
	}

	target := dir
	if !filepath.IsAbs(target) {
		target = filepath.Join(m.root, dir)
	}

	logger := logging.WatchLogger(m.provider)
	w, err := watch.New(watch.Config{
		Root:      target,
		Recursive: m.cfg.Loader.Recursive,
		Debounce:  m.cfg.Watch.Debounce,
		Logger:    logger,
		Match: func(path string) bool {
			rel, err := m.loader.Resolve(path)
			return err == nil && m.loader.Matches(rel)
		},
		OnChange: func(ctx context.Context, path string) {
			if _, err := m.library.Load(ctx, path); err != nil {
				logger.Warn("watch.reload.failed", "path", path, "error", err)
			}
		},
		OnRemove: func(ctx context.Context, path string) {
			if err := m.library.Forget(ctx, path); err != nil {
				logger.Warn("watch.forget.failed", "path", path, "error", err)
			}
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// Close releases the database handle when the store is database-backed.
func (m *Module) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(cfg)
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}
