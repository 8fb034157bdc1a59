package models

// RetrieveRequest is the body of POST /retrieve. K falls back to 4 when omitted.
type RetrieveRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

// TokenRequest carries optional participant info for POST /getToken.
// ParticipantMetadata is free-form JSON forwarded to the voice session,
// where it may override the default system prompt.
type TokenRequest struct {
	ParticipantName     string `json:"participant_name"`
	ParticipantMetadata string `json:"participant_metadata"`
}
