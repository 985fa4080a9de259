package indexing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestChunk_RespectsMaxSize(t *testing.T) {
	files := make([]string, 105)
	batches := Chunk(files, 10, 50)
	require.Len(t, batches, 3)
	require.Len(t, batches[0].Files, 50)
	require.Len(t, batches[1].Files, 50)
	require.Len(t, batches[2].Files, 5)
}

func TestShouldParallelize_FewFilesStaySequential(t *testing.T) {
	root := t.TempDir()
	var files []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(root, "f.rho")
		require.NoError(t, os.WriteFile(p, make([]byte, 1<<20), 0o644))
		files = append(files, p)
	}
	require.False(t, ShouldParallelize(FileBatch{Files: files}))
}

func TestShouldParallelize_ManyLargeFilesGoParallel(t *testing.T) {
	root := t.TempDir()
	var files []string
	for i := 0; i < 20; i++ {
		p := filepath.Join(root, "f"+string(rune('a'+i))+".rho")
		require.NoError(t, os.WriteFile(p, make([]byte, 1<<20), 0o644))
		files = append(files, p)
	}
	require.True(t, ShouldParallelize(FileBatch{Files: files}))
}

func TestProcessBatches_VisitsEveryFileAndReportsMonotonicProgress(t *testing.T) {
	root := t.TempDir()
	var files []string
	for i := 0; i < 12; i++ {
		p := filepath.Join(root, "f"+string(rune('a'+i))+".rho")
		require.NoError(t, os.WriteFile(p, make([]byte, 1<<20), 0o644))
		files = append(files, p)
	}
	batches := Chunk(files, 5, 5)

	var visited int64
	var mu sync.Mutex
	var progressDone []int

	err := ProcessBatches(context.Background(), batches, func(ctx context.Context, path string) error {
		atomic.AddInt64(&visited, 1)
		return nil
	}, func(total, done int) {
		mu.Lock()
		defer mu.Unlock()
		progressDone = append(progressDone, done)
	})

	require.NoError(t, err)
	require.Equal(t, int64(12), visited)
	require.Equal(t, []int{5, 10, 12}, progressDone)
}

func TestProcessBatches_PropagatesFirstError(t *testing.T) {
	batches := []FileBatch{{Files: []string{"a", "b"}}}

	err := ProcessBatches(context.Background(), batches, func(ctx context.Context, path string) error {
		return errBoom
	}, nil)
	require.ErrorIs(t, err, errBoom)
}
