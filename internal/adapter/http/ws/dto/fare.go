package dto

import "github.com/Temutjin2k/fare-predictor/internal/domain/models"

const (
	TypeFareQuote = "fare_quote"
	TypeError     = "error"
)

// TripMessage is one inbound quote request on the fare socket.
type TripMessage struct {
	RequestID string `json:"request_id,omitempty"`
	models.TripRequest
}

type QuoteMessage struct {
	Type      string            `json:"type"`
	RequestID string            `json:"request_id,omitempty"`
	Quote     *models.FareQuote `json:"quote"`
}

type ErrorMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Code      int    `json:"code"`
	Error     any    `json:"error"`
}
