package features

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestHaversine_Identity(t *testing.T) {
	points := [][2]float64{{0, 0}, {40.7128, -74.0060}, {-33.8688, 151.2093}, {90, 0}, {-90, 180}}
	for _, p := range points {
		if d := HaversineMiles(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	cases := [][4]float64{
		{40.7128, -74.0060, 40.7831, -73.9712},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{10, -179.5, -10, 179.5},
	}
	for _, c := range cases {
		ab := HaversineMiles(c[0], c[1], c[2], c[3])
		ba := HaversineMiles(c[2], c[3], c[0], c[1])
		if math.Abs(ab-ba) > tolerance {
			t.Errorf("asymmetric distance for %v: %v vs %v", c, ab, ba)
		}
	}
}

func TestHaversine_MilesUseFixedConstant(t *testing.T) {
	km := HaversineKm(40.7128, -74.0060, 40.7831, -73.9712)
	miles := HaversineMiles(40.7128, -74.0060, 40.7831, -73.9712)
	if miles != km*0.621371 {
		t.Fatalf("miles = %v, want km*0.621371 = %v", miles, km*0.621371)
	}
}

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantMiles              float64
	}{
		{"manhattan", 40.7128, -74.0060, 40.7831, -73.9712, 5.1875931407704705},
		{"london-paris", 51.5074, -0.1278, 48.8566, 2.3522, 213.4757727701733},
		{"antipodal", 0, 0, 0, 180, 12436.7944975301},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMiles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantMiles) > 1e-6 {
				t.Fatalf("distance = %v, want %v", got, tt.wantMiles)
			}
		})
	}
}

func TestHaversine_AntipodalIsFinite(t *testing.T) {
	d := HaversineKm(45, 30, -45, -150)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("antipodal distance is not finite: %v", d)
	}
	if math.Abs(d-EarthRadiusKm*math.Pi) > 1e-6 {
		t.Fatalf("antipodal distance = %v, want %v", d, EarthRadiusKm*math.Pi)
	}
}

func BenchmarkHaversineMiles(b *testing.B) {
	for b.Loop() {
		HaversineMiles(40.7128, -74.0060, 40.7831, -73.9712)
	}
}
