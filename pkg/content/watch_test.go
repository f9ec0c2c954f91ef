package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	blog := filepath.Join(dir, "blog")
	require.NoError(t, os.MkdirAll(blog, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blog, "first.md"), []byte("---\ntitle: First\n---\n"), 0o644))

	s := NewStore(NewDirSource(dir), nil)
	require.NoError(t, s.Reload(context.Background()))
	require.Len(t, s.List(KindPost), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, dir, 20*time.Millisecond) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(blog, "second.md"), []byte("---\ntitle: Second\n---\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(s.List(KindPost)) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchMissingDir(t *testing.T) {
	s := NewStore(NewDirSource("/does/not/exist"), nil)
	err := s.Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0)
	require.Error(t, err)
}
