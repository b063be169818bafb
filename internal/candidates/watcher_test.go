package candidates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Setenv(EnvPath, "")
	tmpDir := t.TempDir()
	path := writeCandidates(t, tmpDir, "candidates: []\n")

	results := make(chan *File, 4)
	w, err := NewWatcher(NewReaderWithPath(tmpDir, path), func(f *File, err error) {
		if err == nil {
			results <- f
		}
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("candidates:\n  - name: G1\n    reachable: true\n"), 0644))

	select {
	case f := <-results:
		require.Len(t, f.Candidates, 1)
		assert.Equal(t, "G1", f.Candidates[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the rewritten file")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Setenv(EnvPath, "")
	tmpDir := t.TempDir()
	path := writeCandidates(t, tmpDir, "candidates: []\n")

	calls := make(chan struct{}, 4)
	w, err := NewWatcher(NewReaderWithPath(tmpDir, path), func(*File, error) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.yaml"), []byte("x"), 0644))

	select {
	case <-calls:
		t.Fatal("watcher reacted to an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	t.Setenv(EnvPath, "")
	tmpDir := t.TempDir()
	path := writeCandidates(t, tmpDir, "candidates: []\n")

	w, err := NewWatcher(NewReaderWithPath(tmpDir, path), func(*File, error) {})
	require.NoError(t, err)
	w.Start()

	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}
