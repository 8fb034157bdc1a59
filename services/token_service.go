package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/models"
)

// ErrMissingCredentials is returned when the LiveKit key pair or server URL
// is not configured.
var ErrMissingCredentials = errors.New("LiveKit credentials not configured")

const tokenTTL = 6 * time.Hour

// TokenService issues LiveKit-compatible access tokens so a frontend can
// join a fresh voice session room. Room creation and agent dispatch happen
// on the media server side and are not this service's concern.
type TokenService struct {
	apiKey    string
	apiSecret string
	serverURL string
}

// NewTokenService creates a token service from the LiveKit credentials.
func NewTokenService(apiKey, apiSecret, serverURL string) *TokenService {
	return &TokenService{apiKey: apiKey, apiSecret: apiSecret, serverURL: serverURL}
}

// CreateSession mints a token for a unique per-session room. Participant
// metadata is passed through untouched; the voice agent reads it to pick up
// a custom system prompt.
func (s *TokenService) CreateSession(req models.TokenRequest) (*models.TokenResponse, error) {
	if s.apiKey == "" || s.apiSecret == "" || s.serverURL == "" {
		return nil, ErrMissingCredentials
	}

	sessionID := uuid.New().String()
	roomName := fmt.Sprintf("voice-rag-%s", sessionID)
	identity := fmt.Sprintf("user-%s", sessionID)
	name := req.ParticipantName
	if name == "" {
		name = "User"
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.apiKey,
		"sub":  identity,
		"nbf":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
		"name": name,
		"video": map[string]interface{}{
			"room":           roomName,
			"roomJoin":       true,
			"canPublish":     true,
			"canSubscribe":   true,
			"canPublishData": true,
		},
	}
	if req.ParticipantMetadata != "" {
		claims["metadata"] = req.ParticipantMetadata
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &models.TokenResponse{
		ServerURL:        s.serverURL,
		ParticipantToken: signed,
	}, nil
}
