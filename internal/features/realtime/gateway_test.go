package realtime

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessKey = "dGVzdC1hY2Nlc3Mta2V5LXdpdGgtcGFkZGluZw=="

func parseTestToken(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		assert.Equal(t, jwt.SigningMethodHS256, token.Method)
		return []byte(testAccessKey), nil
	})
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	return claims
}

func Test_Negotiate_WhenConfigured_ReturnsHubURLAndScopedToken(t *testing.T) {
	gateway := NewGateway(&Settings{Endpoint: "https://logs.service.signalr.net", AccessKey: testAccessKey}, time.Hour)

	response, err := gateway.Negotiate("")
	require.NoError(t, err)

	assert.Equal(t, "https://logs.service.signalr.net/client/?hub=logstream", response.URL)

	claims := parseTestToken(t, response.AccessToken)
	assert.True(t, claims.VerifyAudience(response.URL, true))
	assert.False(t, claims.VerifyAudience("https://logs.service.signalr.net/api/v1/hubs/logstream", true))

	issuedAt, ok := claims["iat"].(float64)
	require.True(t, ok)
	expiresAt, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Equal(t, float64(time.Hour/time.Second), expiresAt-issuedAt)

	_, hasNameID := claims["nameid"]
	assert.False(t, hasNameID)
}

func Test_Negotiate_WithUserID_AddsNameIDClaim(t *testing.T) {
	gateway := NewGateway(&Settings{Endpoint: "https://logs.service.signalr.net", AccessKey: testAccessKey}, time.Hour)

	response, err := gateway.Negotiate("user-42")
	require.NoError(t, err)

	claims := parseTestToken(t, response.AccessToken)
	assert.Equal(t, "user-42", claims["nameid"])
}

func Test_Negotiate_WhenNotConfigured_ReturnsConfigurationError(t *testing.T) {
	gateway := NewGateway(nil, time.Hour)

	response, err := gateway.Negotiate("user-42")

	assert.ErrorIs(t, err, ErrRealtimeNotConfigured)
	assert.Nil(t, response)
	assert.False(t, gateway.IsEnabled())
}

func Test_Negotiate_WithCustomTTL_SetsExpiry(t *testing.T) {
	gateway := NewGateway(&Settings{Endpoint: "https://logs.service.signalr.net", AccessKey: testAccessKey}, 10*time.Minute)

	response, err := gateway.Negotiate("")
	require.NoError(t, err)

	claims := parseTestToken(t, response.AccessToken)
	assert.Equal(t, float64(600), claims["exp"].(float64)-claims["iat"].(float64))
}
