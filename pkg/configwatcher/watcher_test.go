package configwatcher

import (
	"context"
	"lingochat_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Setenv("AI_MODEL", "")
	t.Setenv("LINGOCHAT_AI_MODEL", "")
}

func writeConfig(t *testing.T, path, model string) {
	t.Helper()
	content := "ai:\n  model: " + model + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReloadIsDebounced(t *testing.T) {
	clearModelEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "gpt-initial")

	watcher, absPath, err := watch(path)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, watcher, absPath, 200*time.Millisecond, func(cfg *config.Config) {
			reloads <- cfg.AI.Model
		})
	}()

	// 连续写入只触发一次重载，且读到最后一次内容
	writeConfig(t, path, "gpt-a")
	writeConfig(t, path, "gpt-b")
	writeConfig(t, path, "gpt-reloaded")

	select {
	case model := <-reloads:
		assert.Equal(t, "gpt-reloaded", model)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	select {
	case model := <-reloads:
		t.Fatalf("unexpected second reload with %q", model)
	case <-time.After(600 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestOtherFilesAreIgnored(t *testing.T) {
	clearModelEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "gpt-initial")

	watcher, absPath, err := watch(path)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan string, 1)
	go run(ctx, watcher, absPath, 100*time.Millisecond, func(cfg *config.Config) {
		reloads <- cfg.AI.Model
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case model := <-reloads:
		t.Fatalf("unexpected reload with %q", model)
	case <-time.After(500 * time.Millisecond):
	}
}
