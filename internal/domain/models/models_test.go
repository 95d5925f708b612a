package models

import (
	"strings"
	"testing"
)

func TestFeatureVector_RowOrder(t *testing.T) {
	f := FeatureVector{TripDistanceMile: 5.5, PickupHour: 22, PassengerCount: 3, IsNight: true}
	row := f.Row()

	want := []string{"trip_distance_mile", "pickup_hour", "passenger_count", "is_night"}
	if len(row.Names) != len(want) {
		t.Fatalf("names = %v", row.Names)
	}
	for i, n := range want {
		if row.Names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, row.Names[i], n)
		}
	}

	values := []float64{5.5, 22, 3, 1}
	for i, v := range values {
		if row.Values[i] != v {
			t.Errorf("values[%d] = %v, want %v", i, row.Values[i], v)
		}
	}

	if got := (FeatureVector{}).Row().Values[3]; got != 0 {
		t.Errorf("daytime is_night = %v, want 0", got)
	}
}

func TestFareQuote_Summary(t *testing.T) {
	q := &FareQuote{
		Fare:                15.654,
		Features:            FeatureVector{TripDistanceMile: 5.1875931407704705, PickupHour: 15, PassengerCount: 1},
		TripDurationSeconds: 1200,
	}

	got := q.Summary()
	for _, line := range []string{
		"Predicted Total Fare Amount: $15.65",
		"Trip Distance: 5.19 miles",
		"Pickup Hour: 15",
		"Is Night Trip: No",
		"Passenger Count: 1",
		"Trip Duration: 1200.00 seconds",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("summary missing %q:\n%s", line, got)
		}
	}
}

func TestCalculateMetadata(t *testing.T) {
	m := CalculateMetadata(41, 2, 20)
	if m.FirstPage != 1 || m.LastPage != 3 || m.TotalRecords != 41 {
		t.Fatalf("metadata = %+v", m)
	}

	empty := CalculateMetadata(0, 1, 20)
	if empty.LastPage != 0 || empty.FirstPage != 0 {
		t.Fatalf("empty metadata = %+v", empty)
	}
}
