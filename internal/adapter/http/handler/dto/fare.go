package dto

import (
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/pkg/validator"
)

// PredictFareRequest is the body of POST /fares/predict. Pointer fields tell a
// missing value apart from zero. Ranges and timestamp formats are checked by
// the fare service.
type PredictFareRequest struct {
	PickupLatitude   *float64 `json:"pickup_latitude" example:"40.7128"`
	PickupLongitude  *float64 `json:"pickup_longitude" example:"-74.0060"`
	DropoffLatitude  *float64 `json:"dropoff_latitude" example:"40.7831"`
	DropoffLongitude *float64 `json:"dropoff_longitude" example:"-73.9712"`
	PassengerCount   *int     `json:"passenger_count" example:"1"`
	PickupDatetime   string   `json:"pickup_datetime" example:"2023-10-27 15:30:00"`
	DropoffDatetime  string   `json:"dropoff_datetime" example:"2023-10-27 15:50:00"`
}

func (r *PredictFareRequest) Validate(v *validator.Validator) {
	v.Check(r.PickupLatitude != nil, "pickup_latitude", "must be provided")
	v.Check(r.PickupLongitude != nil, "pickup_longitude", "must be provided")
	v.Check(r.DropoffLatitude != nil, "dropoff_latitude", "must be provided")
	v.Check(r.DropoffLongitude != nil, "dropoff_longitude", "must be provided")
	v.Check(r.PassengerCount != nil, "passenger_count", "must be provided")
	v.Check(r.PickupDatetime != "", "pickup_datetime", "must be provided")
	v.Check(r.DropoffDatetime != "", "dropoff_datetime", "must be provided")
}

// ToModel must only be called after Validate reported no errors.
func (r *PredictFareRequest) ToModel() models.TripRequest {
	return models.TripRequest{
		PickupLatitude:   *r.PickupLatitude,
		PickupLongitude:  *r.PickupLongitude,
		DropoffLatitude:  *r.DropoffLatitude,
		DropoffLongitude: *r.DropoffLongitude,
		PassengerCount:   *r.PassengerCount,
		PickupDatetime:   r.PickupDatetime,
		DropoffDatetime:  r.DropoffDatetime,
	}
}

type PredictFareResponse struct {
	Quote *models.FareQuote `json:"quote"`
}

type SchemaResponse struct {
	Model models.ModelInfo `json:"model"`
}

type ListPredictionsResponse struct {
	Predictions []*models.PredictionRecord `json:"predictions"`
	Metadata    models.Metadata            `json:"metadata"`
}

type StatsResponse struct {
	Days  int                 `json:"days"`
	Stats []models.DailyStats `json:"stats"`
}
