package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

type fakeFareService struct {
	err     error
	lastReq models.TripRequest
}

func (f *fakeFareService) Quote(ctx context.Context, req models.TripRequest) (*models.FareQuote, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.FareQuote{
		ID:           uuid.New(),
		Fare:         15.65,
		Features:     models.FeatureVector{TripDistanceMile: 5.19, PickupHour: 15, PassengerCount: req.PassengerCount},
		ModelVersion: "v1",
	}, nil
}

func (f *fakeFareService) Schema() models.ModelInfo {
	return models.ModelInfo{Name: "fare-gbm", Version: "v1", FeatureNames: models.FeatureNames()}
}

const validTrip = `{
	"pickup_latitude": 40.7128,
	"pickup_longitude": -74.0060,
	"dropoff_latitude": 40.7831,
	"dropoff_longitude": -73.9712,
	"passenger_count": 1,
	"pickup_datetime": "2023-10-27 15:30:00",
	"dropoff_datetime": "2023-10-27 15:50:00"
}`

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rr.Body.String())
	}
	return body
}

func TestFare_Predict(t *testing.T) {
	svc := &fakeFareService{}
	h := NewFare(svc, logger.Discard())

	rr := httptest.NewRecorder()
	h.Predict(rr, httptest.NewRequest(http.MethodPost, "/fares/predict", strings.NewReader(validTrip)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	quote, ok := decode(t, rr)["quote"].(map[string]any)
	if !ok || quote["fare"] != 15.65 {
		t.Fatalf("quote = %v", quote)
	}
	if svc.lastReq.PickupDatetime != "2023-10-27 15:30:00" || svc.lastReq.DropoffLongitude != -73.9712 {
		t.Fatalf("request forwarded as %+v", svc.lastReq)
	}
}

func TestFare_Predict_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"malformed json", `{"pickup_latitude":`, http.StatusBadRequest, ""},
		{"unknown field", `{"tip": 3}`, http.StatusBadRequest, ""},
		{"empty body", ``, http.StatusBadRequest, ""},
		{"missing fields", `{"pickup_latitude": 40.7}`, http.StatusUnprocessableEntity, "passenger_count"},
		{"wrong type", `{"passenger_count": "one"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFareService{}
			rr := httptest.NewRecorder()
			NewFare(svc, logger.Discard()).Predict(rr, httptest.NewRequest(http.MethodPost, "/fares/predict", strings.NewReader(tt.body)))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantField != "" {
				fields, ok := decode(t, rr)["error"].(map[string]any)
				if !ok || fields[tt.wantField] == nil {
					t.Fatalf("error = %v, want field %s", fields, tt.wantField)
				}
			}
		})
	}
}

func TestFare_Predict_ServiceErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{&parseErr{}, http.StatusUnprocessableEntity, ""},
		{fmt.Errorf("%w: pickup_latitude must be between -90 and 90", types.ErrInvalidCoordinate), http.StatusUnprocessableEntity, ""},
		{types.ErrInvalidPassengerCount, http.StatusUnprocessableEntity, types.ErrInvalidPassengerCount.Error()},
		{fmt.Errorf("%w: open models/final_model.json: no such file", types.ErrModelUnavailable), http.StatusServiceUnavailable, types.ErrModelUnavailable.Error()},
		{fmt.Errorf("%w: row width 3", types.ErrPrediction), http.StatusInternalServerError, types.ErrPrediction.Error()},
		{errors.New("boom"), http.StatusInternalServerError, "the server encountered a problem and could not process your request"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewFare(&fakeFareService{err: tt.err}, logger.Discard()).
				Predict(rr, httptest.NewRequest(http.MethodPost, "/fares/predict", strings.NewReader(validTrip)))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantMsg != "" {
				if msg := decode(t, rr)["error"]; msg != tt.wantMsg {
					t.Fatalf("error = %v, want %q", msg, tt.wantMsg)
				}
			}
		})
	}
}

// parseErr stands in for the feature parser's error type.
type parseErr struct{}

func (*parseErr) Error() string { return "pickup_datetime: invalid timestamp \"yesterday\"" }
func (*parseErr) Unwrap() error { return types.ErrParse }

func TestFare_Schema(t *testing.T) {
	rr := httptest.NewRecorder()
	NewFare(&fakeFareService{}, logger.Discard()).Schema(rr, httptest.NewRequest(http.MethodGet, "/fares/schema", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	model := decode(t, rr)["model"].(map[string]any)
	names := model["feature_names"].([]any)
	want := models.FeatureNames()
	if len(names) != len(want) {
		t.Fatalf("feature_names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("feature_names[%d] = %v, want %s", i, names[i], want[i])
		}
	}
}
