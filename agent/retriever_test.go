package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRetrieverRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/retrieve", r.URL.Path)

		var req struct {
			Query string `json:"query"`
			K     int    `json:"k"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "moon landing", req.Query)
		assert.Equal(t, 4, req.K)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"documents": []string{"chunk"},
			"metadatas": []map[string]string{{"source": "space.pdf"}},
		})
	}))
	defer ts.Close()

	r := NewHTTPRetriever(ts.URL, ts.Client())
	result, err := r.Retrieve(context.Background(), "moon landing", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"chunk"}, result.Documents)
	assert.Equal(t, []string{"space.pdf"}, result.Sources())
}

func TestHTTPRetrieverNon200IsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	r := NewHTTPRetriever(ts.URL, ts.Client())
	_, err := r.Retrieve(context.Background(), "q", 4)
	assert.Error(t, err)
}

func TestHTTPRetrieverUnreachableBackend(t *testing.T) {
	r := NewHTTPRetriever("http://127.0.0.1:1", nil)
	_, err := r.Retrieve(context.Background(), "q", 4)
	assert.Error(t, err)
}

func TestSourcesFallsBackToUnknown(t *testing.T) {
	result := &RetrieveResult{
		Documents: []string{"a", "b", "c"},
		Metadatas: []map[string]string{{"source": "x.txt"}, {}},
	}
	assert.Equal(t, []string{"x.txt", "unknown", "unknown"}, result.Sources())
}
