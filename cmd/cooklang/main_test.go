package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const toastRecipe = `---
title: Toast
servings: 2
---
Toast the @bread{2%slices} in a #toaster for ~{3%minutes}.

Spread @butter{1%tbsp} on top.
`

func writeRecipe(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestParseJSON(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "toast.cook", toastRecipe)

	out, _, err := run(t, "parse", path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "toast", decoded["slug"])

	steps, ok := decoded["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 2)

	meta, ok := decoded["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Toast", meta["title"])
	assert.EqualValues(t, 2, meta["servings"])
}

func TestParseYAML(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "toast.cook", toastRecipe)

	out, _, err := run(t, "parse", "--output", "yaml", path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "toast", decoded["slug"])
	assert.Contains(t, out, "name: bread")
}

func TestParseRejectsUnknownOutput(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "toast.cook", toastRecipe)

	_, _, err := run(t, "parse", "--output", "xml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "broken.cook", "Add @salt and stir.\n")

	_, _, err := run(t, "parse", path)
	require.Error(t, err)
	assert.Equal(t, "Ingredient missing quantity delimiters near position 4.", err.Error())
}

func TestRenderFormats(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "toast.cook", toastRecipe)

	out, _, err := run(t, "render", "--format", "markdown", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Toast\n"), out)
	assert.Contains(t, out, "## Ingredients")

	out, _, err = run(t, "render", "--format", "html", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")

	out, _, err = run(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Toast the @bread{2%slices} in a #toaster for ~{3%minutes}.")
}

func TestRenderFormatFromEnvironment(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "toast.cook", toastRecipe)
	t.Setenv("COOKLANG_RENDER_FORMAT", "markdown")

	out, _, err := run(t, "render", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Toast\n"), out)
}

func TestRenderFormatFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "toast.cook", toastRecipe)
	cfgPath := filepath.Join(dir, "cooklang.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  format: html\n  safe_mode: true\n"), 0o644))

	out, _, err := run(t, "--config", cfgPath, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "toast.cook", toastRecipe)

	_, _, err := run(t, "--store", "sqlite", "render", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestValidateReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeRecipe(t, dir, "toast.cook", toastRecipe)
	bad := writeRecipe(t, dir, "broken.cook", "Add @salt and stir.\n")

	out, _, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good)

	out, _, err = run(t, "validate", good, bad)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "ok   "+good)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	cfg, err := loadConfig(globalFlags{store: "sqlite", dsn: "file:x?mode=memory", verbose: true})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:x?mode=memory", cfg.Store.DSN)
	assert.True(t, cfg.Features.Logger)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchLoadsDirectoryAndReportsChanges(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "toast.cook", toastRecipe)

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs([]string{"watch", dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "created toast.cook")
	}, 3*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "watching")
	}, 3*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	writeRecipe(t, dir, "toast.cook", toastRecipe+"\nServe warm.\n")
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "updated toast.cook")
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
