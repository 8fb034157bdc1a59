package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/store"
)

// DefaultTopK is the number of neighbors retrieved when the caller does not
// ask for a specific k.
const DefaultTopK = 4

// Ingestion failures reported as structured results, never as faults.
var (
	ErrNoText   = errors.New("no text content could be extracted")
	ErrNoChunks = errors.New("no chunks could be created")
)

// IngestResult summarizes the store after a successful ingestion.
type IngestResult struct {
	Filename         string
	IndexedDocuments []string
	TotalChunks      int
}

// IndexStatus is the read-only view served by GET /ragStatus.
type IndexStatus struct {
	Ready            bool
	IndexedDocuments []string
	ChunkCount       int
}

// RAGService interface defines methods for RAG operations
type RAGService interface {
	IngestFile(ctx context.Context, content []byte, filename string) (*IngestResult, error)
	Retrieve(ctx context.Context, query string, k int) ([]string, []store.Metadata, error)
	Status(ctx context.Context) (*IndexStatus, error)
}

// ragServiceImpl holds the dependencies it needs to do its job
type ragServiceImpl struct {
	embedder Embedder
	store    *store.Store
	splitter textsplitter.RecursiveCharacter

	// mu serializes load -> mutate -> persist so concurrent ingestions
	// cannot lose each other's chunks on the full-file overwrite. Readers
	// take the shared side: persist renames the index and metadata files
	// one after the other, and an unguarded load in that window would see
	// vectors and metadata of different lengths.
	mu sync.RWMutex
}

// NewRAGService creates a new RAG service instance.
func NewRAGService(embedder Embedder, st *store.Store, chunkSize, chunkOverlap int) RAGService {
	return &ragServiceImpl{
		embedder: embedder,
		store:    st,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// IngestFile parses, chunks, embeds, and indexes one uploaded document.
func (r *ragServiceImpl) IngestFile(ctx context.Context, content []byte, filename string) (*IngestResult, error) {
	text := ExtractText(content, filename)
	logrus.Infof("SERVICE: Ingesting document: %s, text length: %d", filename, len(text))

	if strings.TrimSpace(text) == "" {
		logrus.Warnf("SERVICE: No text content to ingest from %s", filename)
		return nil, ErrNoText
	}

	chunks, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("could not split text from %s: %w", filename, err)
	}
	logrus.Infof("SERVICE: Split into %d chunks", len(chunks))
	if len(chunks) == 0 {
		logrus.Warnf("SERVICE: No chunks created from %s", filename)
		return nil, ErrNoChunks
	}

	vectors, err := r.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("could not generate embeddings for %s: %w", filename, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ix, documents, metadatas, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if ix == nil {
		ix = store.NewIndex(len(vectors[0]))
	}
	ix.Add(vectors)
	documents = append(documents, chunks...)
	for range chunks {
		metadatas = append(metadatas, store.Metadata{Source: filename})
	}

	if err := r.store.Persist(ix, documents, metadatas); err != nil {
		return nil, err
	}

	logrus.Infof("SERVICE: Document %s indexed successfully. Total chunks: %d", filename, len(documents))
	return &IngestResult{
		Filename:         filename,
		IndexedDocuments: distinctSources(metadatas),
		TotalChunks:      len(documents),
	}, nil
}

// Retrieve returns the top-k chunks most similar to query together with
// their source metadata. An absent or empty store yields empty results.
func (r *ragServiceImpl) Retrieve(ctx context.Context, query string, k int) ([]string, []store.Metadata, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	r.mu.RLock()
	ix, documents, metadatas, err := r.store.Load()
	r.mu.RUnlock()
	if err != nil {
		return nil, nil, err
	}
	if ix == nil || len(documents) == 0 {
		return []string{}, []store.Metadata{}, nil
	}

	queryVectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed query text: %w", err)
	}

	_, ids := ix.Search(queryVectors[0], k)

	outDocs := make([]string, 0, len(ids))
	outMetas := make([]store.Metadata, 0, len(ids))
	for _, id := range ids {
		// search cannot produce an out-of-range id, but the mapping
		// must not crash if it ever does
		if id < 0 || id >= len(documents) {
			continue
		}
		outDocs = append(outDocs, documents[id])
		if id < len(metadatas) {
			outMetas = append(outMetas, metadatas[id])
		} else {
			outMetas = append(outMetas, store.Metadata{Source: "unknown"})
		}
	}

	logrus.Infof("SERVICE: Retrieved %d documents for query: %s", len(outDocs), truncate(query, 50))
	return outDocs, outMetas, nil
}

// Status derives the index-ready flag, distinct source list, and chunk
// count from the loaded metadata.
func (r *ragServiceImpl) Status(ctx context.Context) (*IndexStatus, error) {
	r.mu.RLock()
	_, documents, metadatas, err := r.store.Load()
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return &IndexStatus{
		Ready:            len(documents) > 0,
		IndexedDocuments: distinctSources(metadatas),
		ChunkCount:       len(documents),
	}, nil
}

// distinctSources lists the unique source filenames in first-seen order.
func distinctSources(metadatas []store.Metadata) []string {
	seen := make(map[string]bool, len(metadatas))
	sources := []string{}
	for _, m := range metadatas {
		if m.Source == "" || seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		sources = append(sources, m.Source)
	}
	return sources
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
