package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/internal/session"
	"tubegrab/internal/storage"
)

func newTestSession(t *testing.T, out *bytes.Buffer) *session.Session {
	t.Helper()
	store := storage.NewManager(&model.StorageConfig{DownloadDir: t.TempDir(), FileTTLSeconds: 60})
	return session.New(
		service.NewVideoService(0),
		service.NewDownloadService(store, 0, service.LogNotifier{}),
		terminalNotifier{w: out},
	)
}

func TestRunLookupAndDownload(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("https://youtu.be/dQw4w9WgXcQ\n3\nq\n")

	require.NoError(t, run(context.Background(), in, &out, newTestSession(t, &out)))

	text := out.String()
	assert.Contains(t, text, "Sample YouTube Video Title")
	assert.Contains(t, text, "best: 4K (3840x2160)")
	assert.Contains(t, text, "[info] Starting download for format: 137")
	assert.Contains(t, text, "[success] Download started!")

	idx := strings.Index(text, "Saved ")
	require.NotEqual(t, -1, idx)
	path := strings.TrimSpace(strings.SplitN(text[idx+len("Saved "):], "\n", 2)[0])
	assert.Equal(t, "youtube-video-dQw4w9WgXcQ-1080p.mp4", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dummy video content", string(data))
}

func TestRunReportsErrors(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("not a url\nhttps://youtu.be/dQw4w9WgXcQ\nnonexistent-format\n")

	require.NoError(t, run(context.Background(), in, &out, newTestSession(t, &out)))

	text := out.String()
	assert.Contains(t, text, "[error] Invalid YouTube URL")
	assert.Contains(t, text, "[error] Format not found")
	assert.NotContains(t, text, "Saved ")
}

func TestRunStopsOnCancelWhileWaitingForInput(t *testing.T) {
	var out bytes.Buffer
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sess := newTestSession(t, &bytes.Buffer{})
	errc := make(chan error, 1)
	go func() { errc <- run(ctx, in, &out, sess) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestResolveFormat(t *testing.T) {
	formats := service.Formats()

	assert.Equal(t, "571", resolveFormat(formats, "1"))
	assert.Equal(t, "134", resolveFormat(formats, "6"))
	assert.Equal(t, "136", resolveFormat(formats, "136"))
	assert.Equal(t, "7", resolveFormat(formats, "7"))
}
