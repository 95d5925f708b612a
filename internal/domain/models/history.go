package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is a stored fare prediction.
type PredictionRecord struct {
	ID                  uuid.UUID     `json:"id"`
	Trip                TripRequest   `json:"trip"`
	Features            FeatureVector `json:"features"`
	TripDurationSeconds float64       `json:"trip_duration_seconds"`
	Fare                float64       `json:"fare"`
	ModelVersion        string        `json:"model_version"`
	PickupGeohash       string        `json:"pickup_geohash"`
	DropoffGeohash      string        `json:"dropoff_geohash"`
	Cached              bool          `json:"cached"`
	PredictedAt         time.Time     `json:"predicted_at"`
	RecordedAt          time.Time     `json:"recorded_at"`
}

func RecordFromEvent(e FarePredictedEvent) *PredictionRecord {
	return &PredictionRecord{
		ID:                  e.PredictionID,
		Trip:                e.Trip,
		Features:            e.Features,
		TripDurationSeconds: e.TripDurationSeconds,
		Fare:                e.Fare,
		ModelVersion:        e.ModelVersion,
		PickupGeohash:       e.PickupGeohash,
		DropoffGeohash:      e.DropoffGeohash,
		Cached:              e.Cached,
		PredictedAt:         e.Timestamp,
	}
}

// DailyStats aggregates predictions per UTC day.
type DailyStats struct {
	Day             time.Time `json:"day"`
	Predictions     int       `json:"predictions"`
	NightTrips      int       `json:"night_trips"`
	TotalFare       float64   `json:"total_fare"`
	AverageFare     float64   `json:"average_fare"`
	TotalDistance   float64   `json:"total_distance_mile"`
	AverageDistance float64   `json:"average_distance_mile"`
}

// ModelInfo describes the loaded scoring model.
type ModelInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
}
