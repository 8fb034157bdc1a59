package services

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/config"
)

// Embedder maps texts to fixed-dimension dense vectors. One instance is
// constructed at startup and shared by ingestion and query embedding, so
// both call sites live in the same embedding space.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder builds the configured provider. Provider "auto" walks an
// ordered factory list and takes the first provider whose credentials are
// available: gemini, then openai, then ollama.
func NewEmbedder(cfg config.EmbedderConfig, httpClient *http.Client) (Embedder, error) {
	switch cfg.Provider {
	case "gemini":
		return newGeminiEmbedder(cfg)
	case "openai":
		return newOpenAIEmbedder(cfg)
	case "ollama":
		return newOllamaEmbedder(cfg, httpClient), nil
	case "auto", "":
		if os.Getenv("GEMINI_API_KEY") != "" {
			e, err := newGeminiEmbedder(cfg)
			if err == nil {
				logrus.Info("EMBEDDER: Using Gemini embeddings")
				return e, nil
			}
			logrus.Warnf("EMBEDDER: Gemini unavailable: %v", err)
		}
		if os.Getenv("OPENAI_API_KEY") != "" {
			e, err := newOpenAIEmbedder(cfg)
			if err == nil {
				logrus.Info("EMBEDDER: Using OpenAI embeddings")
				return e, nil
			}
			logrus.Warnf("EMBEDDER: OpenAI unavailable: %v", err)
		}
		logrus.Info("EMBEDDER: Using Ollama embeddings")
		return newOllamaEmbedder(cfg, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// normalized wraps a provider so every vector leaving the embedder has unit
// L2 norm, which makes cosine similarity equal to inner product downstream.
type normalized struct {
	inner Embedder
}

func (n *normalized) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := n.inner.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	for _, v := range vectors {
		l2Normalize(v)
	}
	return vectors, nil
}

// l2Normalize scales v to unit length in place. A zero vector is left
// untouched so normalization never produces NaN.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
