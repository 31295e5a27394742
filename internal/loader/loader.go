// Package loader reads recipe documents from an fs.FS. It hands raw text,
// a filename-derived slug and a content checksum to the parser without
// interpreting the markup itself.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

// TextCodeNotFound tags missing or unreadable recipe files.
const TextCodeNotFound = "RECIPE_NOT_FOUND"

const defaultPattern = "*.cook"

// ErrAbsolutePath reports an absolute path given to a loader without a base path.
var ErrAbsolutePath = errors.New("loader: absolute path provided without base path")

// Config configures how recipe files are discovered.
type Config struct {
	// BasePath is the directory fsys is rooted at; absolute paths are made
	// relative to it.
	BasePath string
	// Pattern filters discovered files, "*.cook" when empty.
	Pattern string
	// Recursive controls whether sub-directories are walked.
	Recursive bool
	Logger    interfaces.Logger
}

// Loader turns filesystem paths into recipe documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
	logger    interfaces.Logger
}

var _ interfaces.RecipeLoader = (*Loader)(nil)

// New constructs a Loader over fsys.
func New(fsys fs.FS, cfg Config) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	basePath := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		basePath = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:        fsys,
		basePath:  basePath,
		pattern:   filepath.ToSlash(pattern),
		recursive: cfg.Recursive,
		logger:    logger,
	}
}

// LoadFile reads a single recipe document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.RecipeDocument, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, notFound(rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, notFound(rel, err)
	}

	sum := sha256.Sum256(data)
	doc := &interfaces.RecipeDocument{
		Path:     rel,
		Slug:     Slug(rel),
		Source:   string(data),
		Checksum: hex.EncodeToString(sum[:]),
		ModTime:  info.ModTime(),
	}

	l.logger.Debug("loader.file.read", "path", rel, "bytes", len(data))
	return doc, nil
}

// LoadDirectory walks dir and loads every file matching the pattern. The
// result is sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.RecipeDocument, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	var docs []*interfaces.RecipeDocument
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if current == root {
				return notFound(root, walkErr)
			}
			return walkErr
		}
		if d.IsDir() {
			if current != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.Matches(current) {
			return nil
		}

		doc, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})

	l.logger.Debug("loader.directory.read", "dir", root, "documents", len(docs))
	return docs, nil
}

// Matches reports whether name passes the loader's pattern. Patterns
// containing a slash match the whole relative path, others the base name.
func (l *Loader) Matches(name string) bool {
	name = filepath.ToSlash(name)
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := path.Base(name)
	if strings.Contains(pattern, "/") {
		target = name
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// Slug returns the file name without directory and extension.
func Slug(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Resolve maps name onto the slash-separated path LoadFile reports for it.
func (l *Loader) Resolve(name string) (string, error) {
	return l.makeRelative(name)
}

func (l *Loader) makeRelative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}

func notFound(name string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryNotFound, fmt.Sprintf("recipe %s not found", name)).
		WithTextCode(TextCodeNotFound)
}
