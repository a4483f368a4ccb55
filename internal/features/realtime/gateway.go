package realtime

import (
	"time"
)

// Gateway issues client credentials for the realtime hub.
type Gateway struct {
	settings *Settings
	hubName  string
	tokenTTL time.Duration
	now      func() time.Time
}

func NewGateway(settings *Settings, tokenTTL time.Duration) *Gateway {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &Gateway{
		settings: settings,
		hubName:  HubName,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (g *Gateway) IsEnabled() bool {
	return g.settings != nil
}

// Negotiate returns the hub URL and an access token scoped to it. userID is
// optional and becomes the token's nameid claim.
func (g *Gateway) Negotiate(userID string) (*NegotiateResponseDTO, error) {
	if g.settings == nil {
		return nil, ErrRealtimeNotConfigured
	}

	hubURL := g.settings.ClientURL(g.hubName)

	token, err := issueAccessToken(g.settings.AccessKey, hubURL, userID, g.now().UTC(), g.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &NegotiateResponseDTO{
		URL:         hubURL,
		AccessToken: token,
	}, nil
}
