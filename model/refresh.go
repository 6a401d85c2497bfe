package model

type RefreshRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}

type RefreshEventMessage struct {
	Token       string `json:"token" validate:"required"`
	Reason      string `json:"reason"`
	RequestedAt string `json:"requested_at"`
}

type EventIndexRequest struct {
	Index int `validate:"gte=0"`
}
