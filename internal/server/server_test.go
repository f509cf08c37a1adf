package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePreview(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte("<html><body><h1>Niko Blog</h1></body></html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"),
		[]byte("body{}</body>"), 0644))
	return dir
}

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Result()
}

func TestLiveReloadWrapper_InjectsIntoHTML(t *testing.T) {
	h := newHandler(writePreview(t), newHub(zerolog.Nop()))

	resp := get(t, h, "/")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `new WebSocket("ws://" + window.location.host + "/ws")`)
	assert.Contains(t, string(body), "</script>\n</body></html>")
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, strconv.Itoa(len(body)), resp.Header.Get("Content-Length"))
}

func TestLiveReloadWrapper_LeavesAssetsAlone(t *testing.T) {
	h := newHandler(writePreview(t), newHub(zerolog.Nop()))

	resp := get(t, h, "/css/style.css")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "body{}</body>", string(body))
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
}

func TestLiveReloadWrapper_NotFound(t *testing.T) {
	h := newHandler(writePreview(t), newHub(zerolog.Nop()))

	resp := get(t, h, "/missing.html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, string(body), "WebSocket")
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := newHub(zerolog.Nop())
	srv := httptest.NewServer(newHandler(writePreview(t), hub))
	defer srv.Close()

	a := dialHub(t, srv)
	b := dialHub(t, srv)
	require.Eventually(t, func() bool { return hub.clientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.broadcast(reloadMessage)

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "reload", string(msg))
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub := newHub(zerolog.Nop())
	srv := httptest.NewServer(newHandler(writePreview(t), hub))
	defer srv.Close()

	conn := dialHub(t, srv)
	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.clientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchForChanges_RebuildsAndReloads(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watchPaths(watcher, []string{dir, filepath.Join(dir, "absent")}, zerolog.Nop()))

	hub := newHub(zerolog.Nop())
	srv := httptest.NewServer(newHandler(writePreview(t), hub))
	defer srv.Close()
	conn := dialHub(t, srv)
	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	var builds atomic.Int32
	build := func(clean bool) error {
		assert.False(t, clean)
		builds.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchForChanges(ctx, watcher, hub, build, zerolog.Nop())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("title: x\n"), 0644))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
	assert.GreaterOrEqual(t, builds.Load(), int32(1))
}

func TestWatchForChanges_FailedBuildDoesNotReload(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watcher.Add(dir))

	hub := newHub(zerolog.Nop())
	srv := httptest.NewServer(newHandler(writePreview(t), hub))
	defer srv.Close()
	conn := dialHub(t, srv)
	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	var builds atomic.Int32
	build := func(bool) error {
		builds.Add(1)
		return errors.New("invalid site configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchForChanges(ctx, watcher, hub, build, zerolog.Nop())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("url: nope\n"), 0644))
	require.Eventually(t, func() bool { return builds.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no reload is sent after a failed build")
}

func TestRun_InitialBuildFailure(t *testing.T) {
	err := Run(context.Background(), Options{Addr: "127.0.0.1:0", Logger: zerolog.Nop()}, func(bool) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial build failed")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	opts := Options{
		Addr:       "127.0.0.1:0",
		OutputDir:  writePreview(t),
		WatchPaths: []string{t.TempDir()},
		Logger:     zerolog.Nop(),
	}

	var cleanBuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(clean bool) error {
			if clean {
				cleanBuilds.Add(1)
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return cleanBuilds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
