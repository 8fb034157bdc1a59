package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/store"
)

// flakyRAGService fails the first n ingest calls, then succeeds.
type flakyRAGService struct {
	failures int
	calls    int
}

func (s *flakyRAGService) IngestFile(context.Context, []byte, string) (*IngestResult, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("embedder unavailable")
	}
	return &IngestResult{}, nil
}

func (s *flakyRAGService) Retrieve(context.Context, string, int) ([]string, []store.Metadata, error) {
	return []string{}, []store.Metadata{}, nil
}

func (s *flakyRAGService) Status(context.Context) (*IndexStatus, error) {
	return &IndexStatus{}, nil
}

func writeWatchedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	svc := &flakyRAGService{}
	w := NewDocumentWatcher(svc)
	path := writeWatchedFile(t, "same content")

	w.ingestFile(context.Background(), path)
	w.ingestFile(context.Background(), path)
	assert.Equal(t, 1, svc.calls)

	require.NoError(t, os.WriteFile(path, []byte("new content"), 0o644))
	w.ingestFile(context.Background(), path)
	assert.Equal(t, 2, svc.calls)
}

func TestWatcherRetriesAfterFailedIngest(t *testing.T) {
	svc := &flakyRAGService{failures: 1}
	w := NewDocumentWatcher(svc)
	path := writeWatchedFile(t, "content the embedder missed once")

	w.ingestFile(context.Background(), path)
	require.Equal(t, 1, svc.calls)

	// the failed attempt must not be remembered as ingested
	w.ingestFile(context.Background(), path)
	assert.Equal(t, 2, svc.calls)

	// once ingested, the same content is skipped
	w.ingestFile(context.Background(), path)
	assert.Equal(t, 2, svc.calls)
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, isSupportedFile("notes.txt"))
	assert.True(t, isSupportedFile("Report.PDF"))
	assert.True(t, isSupportedFile("data.csv"))
	assert.True(t, isSupportedFile("readme.md"))
	assert.False(t, isSupportedFile("image.png"))
	assert.False(t, isSupportedFile("doc.txt.swp"))
}
