package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
	"github.com/ReCoderDojoEniwa/HomePage/internal/logfields"
	"github.com/ReCoderDojoEniwa/HomePage/internal/site"
)

const rebuildDebounce = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds, serves the site locally and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the serve root
over HTTP. It watches the source directory and both templates and rebuilds
the pages and the index whenever they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Failing documents are already logged; only an aborted build stops serve.
		if err := runBuildProcess(ctx); err != nil && errors.IsFatal(err) {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "create file watcher")
		}
		defer watcher.Close()

		if err := addWatches(watcher); err != nil {
			return err
		}
		go watchLoop(ctx, watcher)

		return serveSite(ctx)
	},
}

// addWatches registers the source tree and the folders holding the templates.
// fsnotify is not recursive, so every source sub-folder is added.
func addWatches(watcher *fsnotify.Watcher) error {
	err := filepath.WalkDir(appConfig.SourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error walking source directory", logfields.Path(path), logfields.Error(err))
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				logger.Warn("Failed to watch", logfields.Path(path), logfields.Error(watchErr))
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "watch source directory")
	}
	for _, tpl := range []string{appConfig.PageTemplate, appConfig.IndexTemplate} {
		if err := watcher.Add(filepath.Dir(tpl)); err != nil {
			logger.Warn("Failed to watch template folder", logfields.Path(tpl), logfields.Error(err))
		}
	}
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var (
		mu         sync.Mutex
		buildTimer *time.Timer
	)
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		logger.Info("Rebuilding site due to changes...")
		if err := runBuildProcess(ctx); err != nil {
			logger.Error("Rebuild finished with errors", logfields.Error(err))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevantChange(event) {
				continue
			}
			logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))

			if event.Has(fsnotify.Create) && site.IsDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("Failed to watch new folder", logfields.Path(event.Name), logfields.Error(err))
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(rebuildDebounce, rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// relevantChange filters out events on generated files, which share the
// template folder by default and would otherwise trigger rebuild loops.
func relevantChange(event fsnotify.Event) bool {
	if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return false
	}
	if within(event.Name, appConfig.SourceDir) {
		return true
	}
	return samePath(event.Name, appConfig.PageTemplate) || samePath(event.Name, appConfig.IndexTemplate)
}

func serveSite(ctx context.Context) error {
	root := appConfig.ServeRoot
	files := http.FileServer(http.Dir(root))
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(root, r.URL.Path, "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", appConfig.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving site", logfields.Path(root), slog.String("url", fmt.Sprintf("http://localhost:%d/%s", appConfig.Port, filepath.ToSlash(appConfig.IndexOutput))))
	if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "HTTP server failed")
	}
	return nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(absPath(dir), absPath(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func init() {
	serveCmd.Flags().IntP("port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
