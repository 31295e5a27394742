package loader_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cooklang/internal/loader"
)

func newFixtureLoader(recursive bool) *loader.Loader {
	return loader.New(os.DirFS("testdata"), loader.Config{Recursive: recursive})
}

func TestLoadFileDerivesSlugAndChecksum(t *testing.T) {
	doc, err := newFixtureLoader(true).LoadFile(context.Background(), "recipes/Garlic Bread.cook")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Slug != "Garlic Bread" {
		t.Fatalf("expected slug from file stem, got %q", doc.Slug)
	}
	if doc.Path != "recipes/Garlic Bread.cook" {
		t.Fatalf("unexpected path %q", doc.Path)
	}
	if len(doc.Checksum) != 64 {
		t.Fatalf("expected hex sha256 checksum, got %q", doc.Checksum)
	}
	if doc.ModTime.IsZero() {
		t.Fatalf("expected modification time")
	}
}

func TestLoadFileChecksumTracksContent(t *testing.T) {
	fsys := fstest.MapFS{
		"a.cook": {Data: []byte("Boil @water{1%l}."), ModTime: time.Now()},
		"b.cook": {Data: []byte("Boil @water{2%l}."), ModTime: time.Now()},
		"c.cook": {Data: []byte("Boil @water{1%l}."), ModTime: time.Now()},
	}
	l := loader.New(fsys, loader.Config{})
	ctx := context.Background()

	a, _ := l.LoadFile(ctx, "a.cook")
	b, _ := l.LoadFile(ctx, "b.cook")
	c, _ := l.LoadFile(ctx, "c.cook")

	if a.Checksum == b.Checksum {
		t.Fatalf("expected different content to change the checksum")
	}
	if a.Checksum != c.Checksum {
		t.Fatalf("expected identical content to share a checksum")
	}
}

func TestLoadFileMissingIsNotFound(t *testing.T) {
	_, err := newFixtureLoader(true).LoadFile(context.Background(), "recipes/missing.cook")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	var wrapped *goerrors.Error
	if !errors.As(err, &wrapped) || wrapped.TextCode != loader.TextCodeNotFound {
		t.Fatalf("expected %s text code, got %v", loader.TextCodeNotFound, err)
	}
}

func TestLoadDirectoryRecursive(t *testing.T) {
	docs, err := newFixtureLoader(true).LoadDirectory(context.Background(), "recipes")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	want := []string{"recipes/Garlic Bread.cook", "recipes/desserts/custard.cook", "recipes/toast.cook"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.Path != want[i] {
			t.Fatalf("document %d path = %q, want %q", i, doc.Path, want[i])
		}
	}
}

func TestLoadDirectoryNonRecursive(t *testing.T) {
	docs, err := newFixtureLoader(false).LoadDirectory(context.Background(), "recipes")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected top-level documents only, got %d", len(docs))
	}
}

func TestLoadDirectoryMissingRoot(t *testing.T) {
	_, err := newFixtureLoader(true).LoadDirectory(context.Background(), "nope")
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newFixtureLoader(true).LoadFile(ctx, "recipes/toast.cook"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := newFixtureLoader(true).LoadDirectory(ctx, "recipes"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFileResolvesAbsolutePaths(t *testing.T) {
	base, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	l := loader.New(os.DirFS(base), loader.Config{BasePath: base})

	doc, err := l.LoadFile(context.Background(), filepath.Join(base, "recipes", "toast.cook"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Path != "recipes/toast.cook" || doc.Slug != "toast" {
		t.Fatalf("unexpected document %+v", doc)
	}

	_, err = loader.New(os.DirFS(base), loader.Config{}).LoadFile(context.Background(), filepath.Join(base, "x.cook"))
	if !errors.Is(err, loader.ErrAbsolutePath) {
		t.Fatalf("expected ErrAbsolutePath, got %v", err)
	}
}

func TestMatchesAndSlug(t *testing.T) {
	l := loader.New(fstest.MapFS{}, loader.Config{Pattern: "desserts/*.cook"})
	if !l.Matches("desserts/custard.cook") || l.Matches("mains/custard.cook") {
		t.Fatalf("expected path pattern to match against the whole path")
	}
	if got := loader.Slug("a/b/Pan Fried Tofu.cook"); got != "Pan Fried Tofu" {
		t.Fatalf("unexpected slug %q", got)
	}
}
