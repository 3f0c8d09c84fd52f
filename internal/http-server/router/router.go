package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"image-publisher/internal/http-server/handler/publish"
	"image-publisher/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	PublishHandler *publish.PublishHandler

	// FilesDir is served at FilesPrefix when the disk storage backend is
	// active; both empty otherwise.
	FilesDir    string
	FilesPrefix string
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") ||
				(h.FilesPrefix != "" && strings.HasPrefix(r.URL.Path, h.FilesPrefix+"/")) {
				next.ServeHTTP(w, r)
			} else {
				middleware.LoggingMiddleware(next).ServeHTTP(w, r)
			}
		})
	})

	workDir, _ := os.Getwd()

	staticDir := http.Dir(filepath.Join(workDir, "static"))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticDir)))

	if h.FilesDir != "" && h.FilesPrefix != "" {
		r.Handle(h.FilesPrefix+"/*", http.StripPrefix(h.FilesPrefix+"/", http.FileServer(http.Dir(h.FilesDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Post("/publish", h.PublishHandler.PublishImage)
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, r, workDir)
	})

	return r
}

func serveHTML(w http.ResponseWriter, r *http.Request, workDir string) {
	indexPath := filepath.Join(workDir, "templates", "index.html")

	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		http.Error(w, "HTML template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, indexPath)
}
