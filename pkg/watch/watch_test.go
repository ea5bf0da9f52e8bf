package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/macropower/pls/pkg/pls"
	"github.com/macropower/pls/pkg/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const playlistOne = "[playlist]\nFile1=a.mp3\nNumberOfEntries=1\n"

const playlistTwo = "[playlist]\nFile1=a.mp3\nFile2=b.mp3\nLength2=30\nNumberOfEntries=2\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// nextEnd waits for the next [watch.EventEnd], skipping other events.
func nextEnd(t *testing.T, ch <-chan watch.Event) watch.EventEnd {
	t.Helper()

	timeout := time.After(5 * time.Second)

	for {
		select {
		case evt := <-ch:
			if end, ok := evt.(watch.EventEnd); ok {
				return end
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for event")
		}
	}
}

func TestWatcher_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "list.pls")
	writeFile(t, path, playlistOne)

	w, err := watch.New(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	ch := make(chan watch.Event, 2)
	w.Subscribe(ch)

	end := w.Load(t.Context())
	require.NoError(t, end.Err)
	assert.Equal(t, []pls.Element{pls.NewElement("a.mp3")}, end.Elements)

	assert.Equal(t, watch.EventStart{Path: w.Path()}, <-ch)
	assert.Equal(t, end, <-ch)
}

func TestWatcher_LoadErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
		opts    []watch.Opt
		err     error
	}{
		"missing count": {
			content: "[playlist]\nFile1=a.mp3\n",
			err:     pls.ErrMissingKey,
		},
		"require version": {
			content: playlistOne,
			opts:    []watch.Opt{watch.WithParseOpts(pls.WithRequireVersion())},
			err:     pls.ErrMissingKey,
		},
		"missing file": {
			err: os.ErrNotExist,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "list.pls")
			if tc.content != "" {
				writeFile(t, path, tc.content)
			}

			w, err := watch.New(path, tc.opts...)
			require.NoError(t, err)

			t.Cleanup(func() {
				assert.NoError(t, w.Close())
			})

			end := w.Load(t.Context())
			require.ErrorIs(t, end.Err, tc.err)
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "list.pls")
	writeFile(t, path, playlistOne)

	w, err := watch.New(path)
	require.NoError(t, err)

	ch := make(chan watch.Event, 16)
	w.Subscribe(ch)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx)
	}()

	// Changes to other files in the directory are ignored.
	writeFile(t, filepath.Join(dir, "other.pls"), playlistTwo)
	writeFile(t, path, playlistTwo)

	// A write may be observed half-done, so wait for the complete playlist.
	var end watch.EventEnd
	for end.Err != nil || len(end.Elements) != 2 {
		end = nextEnd(t, ch)
	}

	assert.Equal(t, w.Path(), end.Path)
	assert.Equal(t, pls.Seconds(30), end.Elements[1].Length)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, w.Close())
}

func TestWatcher_CloseStopsRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "list.pls")
	writeFile(t, path, playlistOne)

	w, err := watch.New(path)
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		done <- w.Run(context.Background())
	}()

	require.NoError(t, w.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Run did not return after Close")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := watch.New(filepath.Join(t.TempDir(), "missing", "list.pls"))
	require.Error(t, err)
}

func TestWatcher_WithDecoder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "list.txt")
	writeFile(t, path, "x")

	want := []pls.Element{pls.NewElement("decoded")}

	w, err := watch.New(path, watch.WithDecoder(func(data []byte) ([]pls.Element, error) {
		assert.Equal(t, "x", string(data))

		return want, nil
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	end := w.Load(t.Context())
	require.NoError(t, end.Err)
	assert.Equal(t, want, end.Elements)
}
