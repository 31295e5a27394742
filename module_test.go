package cooklang_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	cooklang "github.com/goliatone/go-cooklang"
	"github.com/goliatone/go-cooklang/internal/store"
)

func TestModuleLoadsFromFSAndCaches(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Render.Format = cooklang.FormatCooklang

	fsys := fstest.MapFS{
		"toast.cook":       {Data: []byte("Toast @bread{2%slices}.\n")},
		"sweet/jam.cook":   {Data: []byte("Spread @jam{1%tbsp}.\n")},
		"sweet/readme.txt": {Data: []byte("skip")},
	}
	repo := store.NewMemoryRepository()
	module, err := cooklang.New(cfg, cooklang.WithFS(fsys), cooklang.WithRepository(repo))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	recipes, err := module.LoadDirectory(ctx, ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}

	cached, err := module.Recipes(ctx)
	if err != nil || len(cached) != 2 {
		t.Fatalf("expected 2 cached recipes, got %d (%v)", len(cached), err)
	}
	if module.Repository() != cooklang.Repository(repo) {
		t.Fatalf("expected supplied repository")
	}

	out, err := module.Render(recipes[1])
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.TrimSpace(string(out)) != "Toast @bread{2%slices}." {
		t.Fatalf("unexpected render %q", out)
	}

	if err := module.Forget(ctx, "toast.cook"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if cached, _ := module.Recipes(ctx); len(cached) != 1 {
		t.Fatalf("expected 1 cached recipe after forget, got %d", len(cached))
	}
}

func TestModuleSQLiteStore(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Loader.BasePath = "testdata"
	cfg.Store.Driver = cooklang.DriverSQLite
	cfg.Store.DSN = "file:module_sqlite_test?mode=memory&cache=shared"

	module, err := cooklang.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	events, err := module.Repository().Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	r, err := module.Load(ctx, "Garlic Bread.cook")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Title() != "Garlic Bread" {
		t.Fatalf("unexpected title %q", r.Title())
	}

	select {
	case evt := <-events:
		if evt.Type != cooklang.ChangeCreated || evt.Path != "Garlic Bread.cook" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected created event")
	}

	record, err := module.Repository().Get(ctx, "Garlic Bread.cook")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Title != "Garlic Bread" || record.Slug != "Garlic Bread" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestModuleWatchDisabled(t *testing.T) {
	module, err := cooklang.New(cooklang.DefaultConfig(), cooklang.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.Watch(context.Background(), "."); !errors.Is(err, cooklang.ErrWatchDisabled) {
		t.Fatalf("expected ErrWatchDisabled, got %v", err)
	}
}

func TestModuleWatchReloadsChangedFiles(t *testing.T) {
	root := t.TempDir()
	cfg := cooklang.DefaultConfig()
	cfg.Loader.BasePath = root
	cfg.Features.Watch = true
	cfg.Watch.Debounce = 20 * time.Millisecond

	module, err := cooklang.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := module.Repository().Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- module.Watch(ctx, ".") }()
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(root, "soup.cook")
	if err := os.WriteFile(target, []byte("Simmer @stock{1%l} in a #pot.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitForEvent(t, events, cooklang.ChangeCreated, "soup.cook")

	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}
	waitForEvent(t, events, cooklang.ChangeDeleted, "soup.cook")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("watch did not stop")
	}
}

func waitForEvent(t *testing.T, events <-chan cooklang.ChangeEvent, want cooklang.ChangeType, path string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case evt := <-events:
			if evt.Type == want && evt.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s %s", want, path)
		}
	}
}
