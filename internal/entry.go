// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wizardlink/internal/api"
	"github.com/starford/wizardlink/internal/mcpserver"
	"github.com/starford/wizardlink/internal/sitedb"
	"github.com/starford/wizardlink/internal/siteservice"
	"github.com/starford/wizardlink/internal/sse"
	"github.com/starford/wizardlink/internal/storage"
	"github.com/starford/wizardlink/internal/watcher"
)

// Run starts the preview server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("templates_path", cfg.Templates.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	s, err := openSite(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(s.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := s.db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	// Published files, the targets of file: links.
	if cfg.Files.Root != "" {
		files, err := storage.NewFS(cfg.Files.Root)
		if err != nil {
			logger.Warn("files root unavailable", slog.String("root", cfg.Files.Root), slog.String("error", err.Error()))
		} else {
			r.Mount(cfg.Files.PublicBase, api.NewFileRouter(api.NewFileHandler(files)))
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Reload templates on change and notify preview clients.
	if cfg.Templates.Watch {
		g.Go(func() error {
			err := watcher.Watch(gCtx, s.templates.Root(), cfg.Templates.Extension, logger, func(kind, path string) {
				s.renderer.Reload()
				broker.PublishTemplateChange(kind, path)
			})
			if err != nil {
				logger.Warn("template watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// Render writes the rendered template name for languageID to the output.
func Render(ctx context.Context, name string, languageID int, opts ...Option) error {
	return withSite(opts, func(app *application, s *site) error {
		p, err := s.svc.RenderTemplate(ctx, name, languageID, nil)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(app.out, p.HTML)
		return err
	})
}

// Resolve runs the link helper for one link-wizard value and writes the
// result as JSON.
func Resolve(ctx context.Context, req siteservice.LinkRequest, opts ...Option) error {
	return withSite(opts, func(app *application, s *site) error {
		res, err := s.svc.ResolveLink(ctx, req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(app.out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	})
}

// Import loads a YAML site fixture into the site database.
func Import(ctx context.Context, fixturePath string, opts ...Option) error {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	fx, err := sitedb.ParseFixture(data)
	if err != nil {
		return err
	}
	return withSite(opts, func(app *application, s *site) error {
		return sitedb.Import(ctx, s.db, fx, slog.Default())
	})
}

// ServeMCP runs the MCP server on stdin/stdout.
func ServeMCP(_ context.Context, opts ...Option) error {
	return withSite(opts, func(app *application, s *site) error {
		slog.Info("MCP server starting on stdio")
		return mcpserver.New(s.svc, app.version).ServeStdio()
	})
}

func withSite(opts []Option, fn func(*application, *site) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := openSite(app.config, app.logger())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(app, s)
}
