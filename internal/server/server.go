// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Options configures the dev server.
type Options struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string
	// OutputDir is the directory the build writes and the server serves.
	OutputDir string
	// WatchPaths are files and directories whose changes trigger a rebuild.
	// Missing paths are skipped.
	WatchPaths []string
	Logger     zerolog.Logger
}

// BuildFunc rebuilds the preview. clean is true only for the first build.
type BuildFunc func(clean bool) error

const (
	debounceDuration = 500 * time.Millisecond
	settleDelay      = 100 * time.Millisecond
)

// Run builds once, then serves OutputDir with live reload until ctx is
// cancelled. Rebuild failures are logged and the server keeps running.
func Run(ctx context.Context, opts Options, build BuildFunc) error {
	log := opts.Logger
	if err := build(true); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchPaths(watcher, opts.WatchPaths, log); err != nil {
		return err
	}

	hub := newHub(log)
	go watchForChanges(ctx, watcher, hub, build, log)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", opts.Addr, err)
	}
	srv := &http.Server{
		Handler:           newHandler(opts.OutputDir, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	log.Info().Str("url", previewURL(ln.Addr())).Msg("serving site preview")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down preview server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func previewURL(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok && (tcp.IP == nil || tcp.IP.IsUnspecified()) {
		return "http://localhost:" + strconv.Itoa(tcp.Port)
	}
	return "http://" + addr.String()
}

// watchPaths registers every directory under the given paths. For a file the
// parent directory is watched so editors that save via rename are seen.
func watchPaths(watcher *fsnotify.Watcher, paths []string, log zerolog.Logger) error {
	watched := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("could not watch directory")
			return
		}
		log.Debug().Str("dir", dir).Msg("watching")
		watched[dir] = true
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", p, err)
		}

		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		if err := filepath.Walk(p, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				add(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
	}
	return nil
}

func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, hub *Hub, build BuildFunc, log zerolog.Logger) {
	var lastBuild time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastBuild) < debounceDuration {
				continue
			}
			// Let the editor finish writing before reading the file back.
			time.Sleep(settleDelay)

			log.Info().Str("file", event.Name).Msg("change detected, rebuilding")
			if err := build(false); err != nil {
				log.Error().Err(err).Msg("rebuild failed")
			} else {
				log.Info().Msg("rebuilt, reloading clients")
				hub.broadcast(reloadMessage)
			}
			lastBuild = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func newHandler(outputDir string, hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWs)
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(outputDir))))
	return mux
}

// liveReloadWrapper disables caching and injects the reload script into
// successful HTML responses.
func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter()
		next.ServeHTTP(iw, r)

		for key, values := range iw.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode == http.StatusOK {
			body = bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.WriteHeader(iw.statusCode)
		w.Write(body)
	})
}

// interceptingWriter buffers a response so it can be rewritten.
type interceptingWriter struct {
	body       bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter() *interceptingWriter {
	return &interceptingWriter{
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header { return iw.header }

func (iw *interceptingWriter) Write(b []byte) (int, error) { return iw.body.Write(b) }

func (iw *interceptingWriter) WriteHeader(statusCode int) { iw.statusCode = statusCode }

const liveReloadScript = `
<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'nikoblog serve'.");
    };
  })();
</script>
`
