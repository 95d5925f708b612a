package types

import "errors"

var (
	// ErrParse is returned when a trip timestamp cannot be parsed.
	ErrParse                 = errors.New("invalid timestamp")
	ErrInvalidCoordinate     = errors.New("invalid coordinate")
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 6")

	// ErrModelUnavailable means no scoring model could be loaded.
	ErrModelUnavailable = errors.New("fare model unavailable")
	// ErrPrediction means the model was loaded but scoring failed.
	ErrPrediction     = errors.New("fare prediction failed")
	ErrSchemaMismatch = errors.New("model feature schema mismatch")

	ErrPredictionNotFound = errors.New("prediction not found")
	ErrNotFound           = errors.New("requested item not found")
	ErrDatabaseFailed     = errors.New("database operation failed")
	ErrInvalidEvent       = errors.New("invalid fare event")
)
