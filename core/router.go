package core

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type RuntimeContext struct {
	Env string
	// Reloader, when set, is mounted at ReloadPath.
	Reloader LiveReloaderInterface
}

type Router struct {
	config   Config
	env      string
	renderer *Renderer
	mux      *chi.Mux
}

func NewRouter(config Config, renderer *Renderer, rc RuntimeContext) *Router {
	r := &Router{
		config:   config,
		env:      rc.Env,
		renderer: renderer,
		mux:      chi.NewRouter(),
	}

	r.mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		r.servePage(w, req, config.Variant())
	})
	r.mux.Get("/variants/{variant}", func(w http.ResponseWriter, req *http.Request) {
		v, err := ParseVariant(chi.URLParam(req, "variant"))
		if err != nil {
			http.NotFound(w, req)
			return
		}
		r.servePage(w, req, v)
	})
	r.mux.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.mux.Route("/api", r.mountAPI)

	if rc.Reloader != nil {
		r.mux.HandleFunc(ReloadPath, rc.Reloader.Handler)
	}

	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) cacheable() bool {
	return r.env == "prod" && r.config.CacheEnabled
}

func (r *Router) servePage(w http.ResponseWriter, req *http.Request, v Variant) {
	markVariant(w, v)

	if r.config.DebugHeaders {
		w.Header().Set("X-Pipelinepage-Variant", string(v))
	}
	if r.env == "dev" {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if r.cacheable() {
		if AcceptsGzip(req) {
			if gzPath, ok := GetCachedGzipPath(r.config, string(v)); ok {
				if r.config.DebugHeaders {
					w.Header().Set("X-Pipelinepage-Cache", "HIT")
				}
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				http.ServeFile(w, req, gzPath)
				return
			}
		}
		if html, ok := GetCachedHTML(r.config, string(v)); ok {
			if r.config.DebugHeaders {
				w.Header().Set("X-Pipelinepage-Cache", "HIT")
			}
			_, _ = w.Write(html)
			return
		}
	}

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, v); err != nil {
		if IsNotFoundError(err) {
			http.NotFound(w, req)
			return
		}
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.cacheable() {
		if err := SaveCachedHTML(r.config, string(v), buf.Bytes()); err != nil {
			Debugf(r.config, "cache write for %s failed: %v", v, err)
		}
		if r.config.DebugHeaders {
			w.Header().Set("X-Pipelinepage-Cache", "MISS")
		}
	}

	_, _ = w.Write(buf.Bytes())
}

func AcceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
