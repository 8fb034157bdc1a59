package services

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/models"
)

func TestCreateSessionRequiresCredentials(t *testing.T) {
	svc := NewTokenService("", "", "")
	_, err := svc.CreateSession(models.TokenRequest{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestCreateSessionIssuesSignedToken(t *testing.T) {
	svc := NewTokenService("api-key", "api-secret", "wss://rag.example.com")

	resp, err := svc.CreateSession(models.TokenRequest{
		ParticipantName:     "Alice",
		ParticipantMetadata: `{"system_prompt":"custom"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "wss://rag.example.com", resp.ServerURL)

	token, err := jwt.Parse(resp.ParticipantToken, func(token *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, token.Method)
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "api-key", claims["iss"])
	assert.Equal(t, "Alice", claims["name"])
	assert.Equal(t, `{"system_prompt":"custom"}`, claims["metadata"])
	assert.True(t, strings.HasPrefix(claims["sub"].(string), "user-"))

	video, ok := claims["video"].(map[string]interface{})
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(video["room"].(string), "voice-rag-"))
	assert.Equal(t, true, video["roomJoin"])
	assert.Equal(t, true, video["canPublishData"])
}

func TestCreateSessionUsesUniqueRooms(t *testing.T) {
	svc := NewTokenService("api-key", "api-secret", "wss://rag.example.com")

	first, err := svc.CreateSession(models.TokenRequest{})
	require.NoError(t, err)
	second, err := svc.CreateSession(models.TokenRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ParticipantToken, second.ParticipantToken)
}
