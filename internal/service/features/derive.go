package features

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/validator"
)

const (
	MinPassengers = 1
	MaxPassengers = 6

	nightStartHour = 20
	nightEndHour   = 6
)

// Accepted timestamp layouts, tried in order. Offsets are kept as sent, so
// the pickup hour is read in the caller's own clock.
var timestampLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseError reports a timestamp that matched none of the accepted layouts.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s %q", types.ErrParse, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return types.ErrParse
}

// ParseTimestamp parses value with the accepted layouts. field names the
// input in the returned *ParseError.
func ParseTimestamp(field, value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Field: field, Value: value}
}

// IsNight reports whether a pickup hour falls in [20,24) or [0,6).
func IsNight(hour int) bool {
	return hour >= nightStartHour || hour < nightEndHour
}

// Derive turns a raw trip into the model feature vector plus the diagnostic
// trip duration. Timestamps are parsed before anything else; a dropoff
// earlier than pickup yields a negative duration and is not rejected.
func Derive(req models.TripRequest) (models.DerivedTrip, error) {
	pickup, err := ParseTimestamp("pickup_datetime", req.PickupDatetime)
	if err != nil {
		return models.DerivedTrip{}, err
	}
	dropoff, err := ParseTimestamp("dropoff_datetime", req.DropoffDatetime)
	if err != nil {
		return models.DerivedTrip{}, err
	}

	if err := Validate(req); err != nil {
		return models.DerivedTrip{}, err
	}

	hour := pickup.Hour()
	return models.DerivedTrip{
		Features: models.FeatureVector{
			TripDistanceMile: HaversineMiles(req.PickupLatitude, req.PickupLongitude, req.DropoffLatitude, req.DropoffLongitude),
			PickupHour:       hour,
			PassengerCount:   req.PassengerCount,
			IsNight:          IsNight(hour),
		},
		TripDurationSeconds: dropoff.Sub(pickup).Seconds(),
	}, nil
}

// Validate checks coordinate ranges and passenger count. Coordinate problems
// wrap types.ErrInvalidCoordinate, passenger problems types.ErrInvalidPassengerCount.
func Validate(req models.TripRequest) error {
	v := validator.New()
	CheckCoordinates(v, req)
	if !v.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidCoordinate, describe(v.Errors))
	}

	if req.PassengerCount < MinPassengers || req.PassengerCount > MaxPassengers {
		return fmt.Errorf("%w: got %d", types.ErrInvalidPassengerCount, req.PassengerCount)
	}
	return nil
}

// CheckCoordinates records range violations of every coordinate in v.
func CheckCoordinates(v *validator.Validator, req models.TripRequest) {
	v.Check(validator.Between(req.PickupLatitude, -90, 90), "pickup_latitude", "must be between -90 and 90")
	v.Check(validator.Between(req.PickupLongitude, -180, 180), "pickup_longitude", "must be between -180 and 180")
	v.Check(validator.Between(req.DropoffLatitude, -90, 90), "dropoff_latitude", "must be between -90 and 90")
	v.Check(validator.Between(req.DropoffLongitude, -180, 180), "dropoff_longitude", "must be between -180 and 180")
}

func describe(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+errs[k])
	}
	return strings.Join(parts, ", ")
}
