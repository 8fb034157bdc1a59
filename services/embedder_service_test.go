package services

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/config"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/models"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestL2NormalizeProducesUnitNorm(t *testing.T) {
	v := []float32{3, 4}
	l2Normalize(v)
	assert.InDelta(t, 1.0, norm(v), 1e-6)
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
}

func TestL2NormalizeIsIdempotent(t *testing.T) {
	v := []float32{1, 2, 2}
	l2Normalize(v)
	first := append([]float32(nil), v...)
	l2Normalize(v)
	assert.Equal(t, first, v)
}

func TestL2NormalizeLeavesZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	l2Normalize(v)
	assert.Equal(t, []float32{0, 0, 0}, v)
	for _, x := range v {
		assert.False(t, math.IsNaN(float64(x)))
	}
}

type rawEmbedder struct{}

func (rawEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{3, 4}
	}
	return out, nil
}

func TestNormalizedWrapperNormalizesEveryVector(t *testing.T) {
	e := &normalized{inner: rawEmbedder{}}
	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, v := range vectors {
		assert.InDelta(t, 1.0, norm(v), 1e-6)
	}
}

func TestOllamaEmbedderCallsAPI(t *testing.T) {
	var gotPrompts []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)
		var req models.OllamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompts = append(gotPrompts, req.Prompt)
		json.NewEncoder(w).Encode(models.OllamaEmbedResponse{Embedding: []float32{1, 1}})
	}))
	defer ts.Close()

	e := newOllamaEmbedder(config.EmbedderConfig{BaseURL: ts.URL, Model: "test-model"}, ts.Client())
	vectors, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []string{"first", "second"}, gotPrompts)
	for _, v := range vectors {
		assert.InDelta(t, 1.0, norm(v), 1e-6)
	}
}

func TestOllamaEmbedderSurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	e := newOllamaEmbedder(config.EmbedderConfig{BaseURL: ts.URL}, ts.Client())
	_, err := e.EmbedBatch(context.Background(), []string{"text"})
	assert.Error(t, err)
}

func TestNewEmbedderRejectsUnknownProvider(t *testing.T) {
	_, err := NewEmbedder(config.EmbedderConfig{Provider: "quantum"}, nil)
	assert.Error(t, err)
}
