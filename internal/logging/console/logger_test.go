package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/internal/logging/console"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)
}

func TestConsoleLoggerWritesPrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: fixedClock,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("cooklang.library")
	logger = logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "cooklang.library"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"recipe_path": "mains/Garlic Bread.cook",
	})
	logger = logger.WithContext(ctx)

	logger.Info("recipe.parsed", "steps", 2, "cached", false, "took", 1500*time.Microsecond)

	got := strings.TrimSpace(buf.String())
	want := `15:09:26.535 INFO  [cooklang.library] recipe.parsed cached=false module=cooklang.library recipe_path="mains/Garlic Bread.cook" steps=2 took=1.5ms`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerCustomLayoutAndNoName(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:     &buf,
		TimeFunc:   fixedClock,
		TimeLayout: time.RFC3339,
	})

	provider.GetLogger("").Warn("watch.skipped")

	if got, want := buf.String(), "2026-03-14T15:09:26Z WARN  watch.skipped\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("cooklang.watch")
	logger.Debug("ignored.debug", "path", "a.cook")
	logger.Info("included.info", "path", "a.cook")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info entry, got %s", lines[0])
	}
}

func TestConsoleLoggerFormatsErrorsAndDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("cooklang").Error("store.failed", "err", errors.New("disk full"), 42, "x", "orphan")

	got := buf.String()
	for _, want := range []string{`err="disk full"`, "arg1=x", "arg2=orphan"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if got := console.Level(99).String(); got != "INFO" {
		t.Fatalf("expected out-of-range level to render INFO, got %s", got)
	}
}
