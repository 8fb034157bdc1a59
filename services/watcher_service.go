package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DocumentWatcher watches a directory and feeds new or modified documents
// through the ingestion pipeline. The index is append-only, so deletions
// and renames are not propagated.
type DocumentWatcher struct {
	ragService RAGService

	mu     sync.Mutex
	hashes map[string]string
}

// NewDocumentWatcher creates a watcher backed by the given RAG service.
func NewDocumentWatcher(ragService RAGService) *DocumentWatcher {
	return &DocumentWatcher{
		ragService: ragService,
		hashes:     make(map[string]string),
	}
}

// WatchDirectory starts a long-running process to watch for file changes in
// real-time. It blocks until the context is cancelled.
func (w *DocumentWatcher) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logrus.Errorf("WATCHER: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSupportedFile(event.Name) {
					continue
				}
				// Many editors write via create-temp-then-rename, which
				// fires several events; Create and Write are handled the same.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					w.ingestFile(ctx, event.Name)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Errorf("WATCHER: %v", err)

			case <-ctx.Done():
				logrus.Info("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	logrus.Infof("WATCHER: Watching directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		logrus.Errorf("WATCHER: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}

// ingestFile reads and ingests one file, skipping content already seen.
func (w *DocumentWatcher) ingestFile(ctx context.Context, path string) {
	hash, err := calculateFileHash(path)
	if err != nil {
		logrus.Warnf("WATCHER: Could not hash file %s: %v", path, err)
		return
	}

	w.mu.Lock()
	unchanged := w.hashes[path] == hash
	w.mu.Unlock()
	if unchanged {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("WATCHER: Could not read file %s: %v", path, err)
		return
	}

	logrus.Infof("WATCHER: Ingesting file: %s", path)
	if _, err := w.ragService.IngestFile(ctx, content, filepath.Base(path)); err != nil {
		logrus.Errorf("WATCHER: Failed to ingest file %s: %v", path, err)
		return
	}

	// Remember the content only once it is actually in the index, so a
	// transient ingest failure gets retried on the next event.
	w.mu.Lock()
	w.hashes[path] = hash
	w.mu.Unlock()
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf", ".csv":
		return true
	default:
		return false
	}
}

func calculateFileHash(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
