// Package store implements the persisted flat inner-product vector index
// backing the RAG service. Vectors and chunk metadata live in two files
// under one store directory and are always read and written as a unit.
package store

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	indexFile = "index.gob"
	metaFile  = "meta.json"
)

// ErrStoreCorrupted is returned by Load when the index and metadata files
// disagree about how many chunks exist. The store refuses to serve rather
// than silently truncating.
var ErrStoreCorrupted = errors.New("store: index and metadata lengths diverge")

// Metadata is the per-chunk source record, aligned by position with the
// chunk texts and the index vectors.
type Metadata struct {
	Source string `json:"source"`
}

// Index is an exact nearest-neighbor index over L2-normalized vectors,
// scored by inner product. It only ever grows by append.
type Index struct {
	dim     int
	vectors [][]float32
}

// NewIndex creates an empty index. The dimension is fixed for the lifetime
// of the index; callers must only add vectors of that dimension.
func NewIndex(dim int) *Index {
	return &Index{dim: dim}
}

// Add appends vectors to the index, preserving insertion order.
func (ix *Index) Add(vectors [][]float32) {
	ix.vectors = append(ix.vectors, vectors...)
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.vectors)
}

// Dimension returns the fixed vector dimension.
func (ix *Index) Dimension() int { return ix.dim }

// Search returns up to min(k, Len()) nearest neighbors of query by inner
// product, highest score first. Ties break toward the earlier insertion.
// A nil or empty index yields empty results.
func (ix *Index) Search(query []float32, k int) ([]float32, []int) {
	if ix.Len() == 0 || k <= 0 {
		return []float32{}, []int{}
	}
	scores := make([]float32, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = dot(v, query)
	}
	ids := make([]int, len(scores))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		if scores[ids[a]] != scores[ids[b]] {
			return scores[ids[a]] > scores[ids[b]]
		}
		return ids[a] < ids[b]
	})
	if k > len(ids) {
		k = len(ids)
	}
	outScores := make([]float32, k)
	outIDs := make([]int, k)
	for i := 0; i < k; i++ {
		outIDs[i] = ids[i]
		outScores[i] = scores[ids[i]]
	}
	return outScores, outIDs
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Store manages the on-disk index + metadata pair.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

type persistedIndex struct {
	Dim     int
	Vectors [][]float32
}

type persistedMeta struct {
	Documents []string   `json:"documents"`
	Metadatas []Metadata `json:"metadatas"`
}

// Load reads the persisted index and metadata. When nothing has been
// ingested yet, the index is nil and both slices are empty; absence is not
// an error. Load validates that the index and metadata agree in length and
// returns ErrStoreCorrupted when they do not.
func (s *Store) Load() (*Index, []string, []Metadata, error) {
	raw, err := os.Open(filepath.Join(s.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, []string{}, []Metadata{}, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store: open index: %w", err)
	}
	defer raw.Close()

	var pi persistedIndex
	if err := gob.NewDecoder(raw).Decode(&pi); err != nil {
		return nil, nil, nil, fmt.Errorf("store: decode index: %w", err)
	}
	ix := &Index{dim: pi.Dim, vectors: pi.Vectors}

	metaBytes, err := os.ReadFile(filepath.Join(s.dir, metaFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store: read metadata: %w", err)
	}
	var pm persistedMeta
	if err := json.Unmarshal(metaBytes, &pm); err != nil {
		return nil, nil, nil, fmt.Errorf("store: decode metadata: %w", err)
	}
	if pm.Documents == nil {
		pm.Documents = []string{}
	}
	if pm.Metadatas == nil {
		pm.Metadatas = []Metadata{}
	}
	if len(pm.Documents) != len(pm.Metadatas) || len(pm.Documents) != ix.Len() {
		return nil, nil, nil, fmt.Errorf("%w: %d documents, %d metadatas, %d vectors",
			ErrStoreCorrupted, len(pm.Documents), len(pm.Metadatas), ix.Len())
	}
	return ix, pm.Documents, pm.Metadatas, nil
}

// Persist writes the index and metadata, each via write-to-temp-then-rename
// so a reader never observes a half-written file.
func (s *Store) Persist(ix *Index, documents []string, metadatas []Metadata) error {
	if len(documents) != len(metadatas) || len(documents) != ix.Len() {
		return fmt.Errorf("%w: %d documents, %d metadatas, %d vectors",
			ErrStoreCorrupted, len(documents), len(metadatas), ix.Len())
	}

	var indexBuf bytes.Buffer
	if err := gob.NewEncoder(&indexBuf).Encode(persistedIndex{Dim: ix.dim, Vectors: ix.vectors}); err != nil {
		return fmt.Errorf("store: encode index: %w", err)
	}
	metaBytes, err := json.Marshal(persistedMeta{Documents: documents, Metadatas: metadatas})
	if err != nil {
		return fmt.Errorf("store: encode metadata: %w", err)
	}

	if err := writeAtomic(filepath.Join(s.dir, indexFile), indexBuf.Bytes()); err != nil {
		return fmt.Errorf("store: write index: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, metaFile), metaBytes); err != nil {
		return fmt.Errorf("store: write metadata: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
