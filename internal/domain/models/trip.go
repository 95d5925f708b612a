package models

// Feature names in the exact order the scoring model was trained on.
const (
	FeatureTripDistanceMile = "trip_distance_mile"
	FeaturePickupHour       = "pickup_hour"
	FeaturePassengerCount   = "passenger_count"
	FeatureIsNight          = "is_night"
)

// FeatureNames returns the model input schema in order.
func FeatureNames() []string {
	return []string{
		FeatureTripDistanceMile,
		FeaturePickupHour,
		FeaturePassengerCount,
		FeatureIsNight,
	}
}

// TripRequest is the raw input for a single fare estimate.
// Timestamps are kept as the caller sent them and parsed during derivation.
type TripRequest struct {
	PickupLatitude   float64 `json:"pickup_latitude"`
	PickupLongitude  float64 `json:"pickup_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
	PassengerCount   int     `json:"passenger_count"`
	PickupDatetime   string  `json:"pickup_datetime"`
	DropoffDatetime  string  `json:"dropoff_datetime"`
}

type FeatureVector struct {
	TripDistanceMile float64 `json:"trip_distance_mile"`
	PickupHour       int     `json:"pickup_hour"`
	PassengerCount   int     `json:"passenger_count"`
	IsNight          bool    `json:"is_night"`
}

// FeatureRow is a named, ordered model input.
type FeatureRow struct {
	Names  []string
	Values []float64
}

// Row maps the vector onto the model schema. is_night is encoded as 1 or 0.
func (f FeatureVector) Row() FeatureRow {
	night := 0.0
	if f.IsNight {
		night = 1
	}
	return FeatureRow{
		Names: FeatureNames(),
		Values: []float64{
			f.TripDistanceMile,
			float64(f.PickupHour),
			float64(f.PassengerCount),
			night,
		},
	}
}

// DerivedTrip is the result of feature derivation. TripDurationSeconds is
// diagnostic output only and is never fed to the model. It can be negative.
type DerivedTrip struct {
	Features            FeatureVector `json:"features"`
	TripDurationSeconds float64       `json:"trip_duration_seconds"`
}
