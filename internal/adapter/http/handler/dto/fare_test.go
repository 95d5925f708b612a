package dto

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/Temutjin2k/fare-predictor/internal/service/features"
	"github.com/Temutjin2k/fare-predictor/pkg/validator"
)

// exampleBody builds a request body from the documented example tags.
func exampleBody(t *testing.T) []byte {
	t.Helper()
	rt := reflect.TypeOf(PredictFareRequest{})
	fields := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		value := f.Tag.Get("example")
		if f.Type.Kind() == reflect.String {
			value = strconv.Quote(value)
		}
		fields = append(fields, strconv.Quote(f.Tag.Get("json"))+":"+value)
	}
	return []byte("{" + strings.Join(fields, ",") + "}")
}

func TestPredictFareRequest_DocumentedExample(t *testing.T) {
	var req PredictFareRequest
	if err := json.Unmarshal(exampleBody(t), &req); err != nil {
		t.Fatalf("example body is not valid JSON: %v", err)
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		t.Fatalf("example fails validation: %v", v.Errors)
	}

	derived, err := features.Derive(req.ToModel())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if derived.TripDurationSeconds != 1200 {
		t.Errorf("duration = %v, want 1200", derived.TripDurationSeconds)
	}
	if derived.Features.PickupHour != 15 || derived.Features.IsNight {
		t.Errorf("features = %+v, want hour 15 and daytime", derived.Features)
	}
}

func TestPredictFareRequest_MissingFields(t *testing.T) {
	var req PredictFareRequest
	v := validator.New()
	req.Validate(v)

	if v.Valid() {
		t.Fatal("empty request should not be valid")
	}
	if len(v.Errors) != 7 {
		t.Fatalf("errors = %v, want one per field", v.Errors)
	}
}
