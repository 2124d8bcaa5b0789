package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/mathnote/internal/document"
	"github.com/mmynk/mathnote/internal/middleware"
	"github.com/mmynk/mathnote/internal/service"
	"github.com/mmynk/mathnote/internal/storage/file"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		addr       string
		staticPath string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the NotebookService and serve the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticPath = staticPath
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watch
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env MATHNOTE_ADDR)")
	cmd.Flags().StringVar(&staticPath, "static", "", "directory with the built UI (env MATHNOTE_STATIC_PATH)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when another process rewrites the slot (file backend only)")
	return cmd
}

func serve(ctx context.Context) error {
	store, slot, closeFn, err := getStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	slog.Info("Storage initialized", "backend", cfg.Backend, "key", cfg.StorageKey, "revision", store.Revision())

	if cfg.Watch {
		fs, ok := slot.(*file.Store)
		if !ok {
			return fmt.Errorf("watch is not supported by the %s backend", cfg.Backend)
		}
		if err := watchSlot(ctx, fs, store); err != nil {
			return err
		}
	}

	handler, err := newHandler(store, cfg.StaticPath)
	if err != nil {
		return err
	}

	// h2c for HTTP/2 without TLS
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown failed", "error", err)
		}
	}

	if store.Dirty() {
		if err := store.Flush(context.Background()); err != nil {
			return fmt.Errorf("unsaved changes lost: %w", err)
		}
		slog.Info("Pending changes saved on shutdown")
	}
	return nil
}

// newHandler wires the RPC service, metrics, health and static UI routes.
func newHandler(store *document.Store, staticPath string) (http.Handler, error) {
	mux := http.NewServeMux()

	path, rpc := service.NewNotebookServiceHandler(
		service.NewNotebookService(store),
		connect.WithInterceptors(middleware.LoggingInterceptor(service.UpdateNoteProcedure)),
	)
	mux.Handle(path, rpc)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if store.Dirty() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "dirty: last save failed")
			return
		}
		fmt.Fprintln(w, "ok")
	})

	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	return middleware.Logging(middleware.CORS(mux)), nil
}

// staticHandler serves the built UI, falling back to index.html for unknown
// paths so client-side routes resolve.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+service.NotebookServiceName) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// watchSlot reloads the document whenever the slot file changes on disk,
// until ctx is cancelled.
func watchSlot(ctx context.Context, fs *file.Store, store *document.Store) error {
	slog.Info("Watching slot for external changes", "path", fs.Path(cfg.StorageKey))

	err := fs.Watch(ctx, cfg.StorageKey, file.DefaultDebounce, func() {
		changed, err := store.Reload(ctx)
		if err != nil {
			slog.Warn("Reload after external change failed", "error", err)
			return
		}
		if changed {
			slog.Info("Picked up external change", "revision", store.Revision())
		}
	})
	if err != nil {
		return fmt.Errorf("watch slot: %w", err)
	}
	return nil
}
