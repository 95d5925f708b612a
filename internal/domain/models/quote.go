package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FareQuote struct {
	ID                  uuid.UUID     `json:"id"`
	Fare                float64       `json:"fare"`
	Features            FeatureVector `json:"features"`
	TripDurationSeconds float64       `json:"trip_duration_seconds"`
	PickupGeohash       string        `json:"pickup_geohash"`
	DropoffGeohash      string        `json:"dropoff_geohash"`
	PickupAddress       string        `json:"pickup_address,omitempty"`
	DropoffAddress      string        `json:"dropoff_address,omitempty"`
	ModelVersion        string        `json:"model_version"`
	Cached              bool          `json:"cached"`
	CreatedAt           time.Time     `json:"created_at"`
}

// Summary renders the quote the way the fare form shows it.
func (q *FareQuote) Summary() string {
	night := "No"
	if q.Features.IsNight {
		night = "Yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Predicted Total Fare Amount: $%.2f\n", q.Fare)
	fmt.Fprintf(&b, "Trip Distance: %.2f miles\n", q.Features.TripDistanceMile)
	fmt.Fprintf(&b, "Pickup Hour: %d\n", q.Features.PickupHour)
	fmt.Fprintf(&b, "Is Night Trip: %s\n", night)
	fmt.Fprintf(&b, "Passenger Count: %d\n", q.Features.PassengerCount)
	fmt.Fprintf(&b, "Trip Duration: %.2f seconds\n", q.TripDurationSeconds)
	return b.String()
}

// FarePredictedEvent is published after every successful quote.
type FarePredictedEvent struct {
	PredictionID        uuid.UUID     `json:"prediction_id"`
	Trip                TripRequest   `json:"trip"`
	Features            FeatureVector `json:"features"`
	TripDurationSeconds float64       `json:"trip_duration_seconds"`
	Fare                float64       `json:"fare"`
	ModelVersion        string        `json:"model_version"`
	PickupGeohash       string        `json:"pickup_geohash"`
	DropoffGeohash      string        `json:"dropoff_geohash"`
	Cached              bool          `json:"cached"`
	CorrelationID       string        `json:"correlation_id,omitempty"`
	Timestamp           time.Time     `json:"timestamp"`
}

func NewFarePredictedEvent(req TripRequest, q *FareQuote, correlationID string) FarePredictedEvent {
	return FarePredictedEvent{
		PredictionID:        q.ID,
		Trip:                req,
		Features:            q.Features,
		TripDurationSeconds: q.TripDurationSeconds,
		Fare:                q.Fare,
		ModelVersion:        q.ModelVersion,
		PickupGeohash:       q.PickupGeohash,
		DropoffGeohash:      q.DropoffGeohash,
		Cached:              q.Cached,
		CorrelationID:       correlationID,
		Timestamp:           q.CreatedAt,
	}
}
