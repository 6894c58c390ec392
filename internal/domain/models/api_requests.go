package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type ListSignalsRequest struct {
	Status string `query:"status" json:"status" default:"active" validate:"oneof=active tp1_hit tp2_hit tp3_hit closed cancelled all"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type ListPumpsRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type GetTickerRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,min=1,max=20"`
}
