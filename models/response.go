package models

import "github.com/ManojKumarKarumanchi/voice-rag-agent/store"

// UploadResponse reports the outcome of a document upload. Status is
// "ingested" on success and "error" when nothing extractable was found;
// parsing failures are results, not HTTP faults.
type UploadResponse struct {
	Status           string   `json:"status"`
	Filename         string   `json:"filename,omitempty"`
	IndexedDocuments []string `json:"indexed_documents,omitempty"`
	TotalChunks      int      `json:"total_chunks,omitempty"`
	Message          string   `json:"message"`
}

// RAGStatusResponse describes the current state of the vector index.
type RAGStatusResponse struct {
	Ready            bool     `json:"ready"`
	IndexedDocuments []string `json:"indexed_documents"`
	ChunkCount       int      `json:"chunk_count"`
	Message          string   `json:"message"`
}

// RetrieveResponse holds the two order-aligned result sequences.
type RetrieveResponse struct {
	Documents []string         `json:"documents"`
	Metadatas []store.Metadata `json:"metadatas"`
}

// TokenResponse is returned by POST /getToken.
type TokenResponse struct {
	ServerURL        string `json:"server_url"`
	ParticipantToken string `json:"participant_token"`
}
