package pipelinepage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pipelinepage/pipelinepage/core"
	"github.com/pipelinepage/pipelinepage/web"
)

const immutableCache = "public, max-age=31536000, immutable"

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
}

var Start = func(cfg RuntimeConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}

// Run serves the page until ctx is cancelled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	fmt.Println("Starting pipelinepage in", cfg.Env, "mode...")

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = core.DefaultConfigPath
	}
	config := core.LoadConfig(configPath)
	config.CacheEnabled = cfg.EnableCache

	var reloader core.LiveReloaderInterface
	if cfg.Env == "dev" {
		reloader = core.NewLiveReloader()
		if config.TemplatesDir != "" {
			err := core.WatchDir(ctx, config.TemplatesDir, func(name string) {
				core.Debugf(config, "template changed: %s", name)
				reloader.BroadcastReload()
			})
			if err != nil {
				return fmt.Errorf("watch templates: %w", err)
			}
		}
	}

	handler, err := NewHandler(cfg.Env, config, reloader)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("✅ pipelinepage running at http://localhost:%d\n", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fmt.Println("🛑 Shutting down...")
		return srv.Shutdown(shutdownCtx)
	}
}

// NewHandler assembles the page router, static assets and middleware.
// reloader may be nil.
func NewHandler(env string, config core.Config, reloader core.LiveReloaderInterface) (http.Handler, error) {
	templates := web.Templates()
	if config.TemplatesDir != "" {
		templates = os.DirFS(config.TemplatesDir)
	}
	static := web.Static()

	renderer, err := core.NewRenderer(core.RendererOptions{
		Env:        env,
		CacheDir:   config.OutputDir,
		Templates:  templates,
		Static:     static,
		Reparse:    env == "dev",
		LiveReload: reloader != nil,
		ReloadPath: core.ReloadPath,
	})
	if err != nil {
		return nil, err
	}

	r := newBaseRouter(log.Default())

	staticHandler := makeStaticHandler(env, static, config.OutputDir)
	r.Handle("/static/*", staticHandler)
	r.Get("/favicon.ico", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", cacheControlFor(env))
		http.ServeFileFS(w, req, static, "vite.svg")
	})

	r.Mount("/", core.NewRouter(config, renderer, core.RuntimeContext{
		Env:      env,
		Reloader: reloader,
	}))

	return r, nil
}

// newBaseRouter logs outside the recoverer so panicking requests still get
// their log line with the 500 status.
func newBaseRouter(logger *log.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(core.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	return r
}

func cacheControlFor(env string) string {
	if env == "dev" {
		return "no-store"
	}
	return immutableCache
}

// makeStaticHandler serves /static/ from the embedded assets. Outside dev,
// minified copies under cacheDir/static win, gzip-compressed when the client
// accepts it.
func makeStaticHandler(env string, static fs.FS, cacheDir string) http.Handler {
	cacheStaticDir := filepath.Join(cacheDir, "static")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/static/"))
		trimmed = strings.TrimPrefix(trimmed, "/")
		if trimmed == "" || trimmed == "." {
			http.NotFound(w, r)
			return
		}

		if env != "dev" {
			cachedFile := filepath.Join(cacheStaticDir, filepath.FromSlash(trimmed))

			if core.AcceptsGzip(r) {
				if _, err := os.Stat(cachedFile + ".gz"); err == nil {
					w.Header().Set("Content-Encoding", "gzip")
					w.Header().Set("Vary", "Accept-Encoding")
					w.Header().Set("Content-Type", detectMimeType(cachedFile))
					w.Header().Set("Cache-Control", immutableCache)
					http.ServeFile(w, r, cachedFile+".gz")
					return
				}
			}

			if _, err := os.Stat(cachedFile); err == nil {
				serveFileWithHeaders(w, r, cachedFile, immutableCache)
				return
			}
		}

		if _, err := fs.Stat(static, trimmed); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", detectMimeType(trimmed))
		w.Header().Set("Cache-Control", cacheControlFor(env))
		http.ServeFileFS(w, r, static, trimmed)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, filePath, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(filePath))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, filePath)
}

func detectMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
