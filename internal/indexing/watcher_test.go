package indexing

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_DebouncesRapidWritesToOneCallback(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.rho")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := NewWatcher(root, []string{".rho"}, nil, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var mu sync.Mutex
	writes := 0
	w.OnWrite = func(p string) {
		mu.Lock()
		defer mu.Unlock()
		writes++
	}

	require.NoError(t, w.Start())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x"+string(rune('0'+i))), 0o644))
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return writes >= 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Less(t, writes, 5)
}

func TestWatcher_IgnoresNonMatchingExtensions(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := NewWatcher(root, []string{".rho"}, nil, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	called := false
	w.OnWrite = func(p string) { called = true }

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.False(t, called)
}

func TestWatcher_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))

	w, err := NewWatcher(root, []string{".rho"}, []string{"**/node_modules/**"}, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	ignoredPath := filepath.Join(root, "node_modules", "dep.rho")
	require.NoError(t, os.WriteFile(ignoredPath, []byte("x"), 0o644))

	called := false
	w.OnCreate = func(p string) { called = true }
	time.Sleep(100 * time.Millisecond)
	require.False(t, called)
}
