package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"justdoit/internal/handlers"
	"justdoit/internal/tasks"
)

func newServeCmd(assets Assets) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, assets)
		},
	}
}

func runServe(cmd *cobra.Command, assets Assets) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := tasks.NewSession(ctx, tasks.NewBoard(a.store), a.ctrl)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	// Parse templates
	tmpl, err := parseTemplates(assets.Templates)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	r, err := newRouter(handlers.New(sess, a.store, tmpl), assets.Static)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":    srv.Addr,
			"backend": a.cfg.StorageBackend,
		}).Infof("Starting server on http://localhost%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(h *handlers.Handlers, static fs.FS) (http.Handler, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	if static != nil {
		staticSub, err := fs.Sub(static, "static")
		if err != nil {
			return nil, fmt.Errorf("failed to open static files: %w", err)
		}
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
	}

	h.Routes(r)
	return r, nil
}

func parseTemplates(templatesFS fs.FS) (*template.Template, error) {
	if templatesFS == nil {
		return nil, nil
	}

	// Custom template functions
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	patterns := []string{
		"templates/*.html",
		"templates/partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := fs.ReadFile(templatesFS, match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := filepath.Base(match)
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	return tmpl, nil
}
