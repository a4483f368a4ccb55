package realtime

type NegotiateRequestDTO struct {
	UserID string `form:"userId" json:"userId"`
}

type NegotiateResponseDTO struct {
	URL         string `json:"url"`
	AccessToken string `json:"accessToken"`
}

type broadcastMessageDTO struct {
	Target    string `json:"target"`
	Arguments []any  `json:"arguments"`
}
