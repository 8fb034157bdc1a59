package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RetrieveResult holds the two order-aligned sequences returned by the
// retrieval backend.
type RetrieveResult struct {
	Documents []string            `json:"documents"`
	Metadatas []map[string]string `json:"metadatas"`
}

// Sources lists the source identifier for each returned document.
func (r *RetrieveResult) Sources() []string {
	sources := make([]string, len(r.Documents))
	for i := range r.Documents {
		sources[i] = "unknown"
		if i < len(r.Metadatas) {
			if s, ok := r.Metadatas[i]["source"]; ok && s != "" {
				sources[i] = s
			}
		}
	}
	return sources
}

// Retriever fetches relevant document chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (*RetrieveResult, error)
}

// HTTPRetriever calls the retrieval backend's POST /retrieve endpoint.
type HTTPRetriever struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRetriever creates a retriever against the given backend base URL.
func NewHTTPRetriever(baseURL string, httpClient *http.Client) *HTTPRetriever {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRetriever{baseURL: baseURL, httpClient: httpClient}
}

// Retrieve posts the query and decodes the result. The caller bounds the
// call with its context; once the deadline fires the request is abandoned.
func (r *HTTPRetriever) Retrieve(ctx context.Context, query string, k int) (*RetrieveResult, error) {
	reqBody, err := json.Marshal(map[string]interface{}{"query": query, "k": k})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieve request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/retrieve", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieve request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call retrieval backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("retrieval backend returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var result RetrieveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode retrieve response: %w", err)
	}
	return &result, nil
}
