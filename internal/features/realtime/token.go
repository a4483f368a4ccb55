package realtime

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const DefaultTokenTTL = time.Hour

// issueAccessToken signs an HS256 token whose audience is bound to the
// given URL, so a token issued for one hub endpoint is rejected by another.
func issueAccessToken(accessKey, audience, userID string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"aud": audience,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(ttl).Unix(),
	}

	if userID != "" {
		claims["nameid"] = userID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(accessKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign realtime token: %w", err)
	}

	return tokenString, nil
}
