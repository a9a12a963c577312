package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                     string
		lat1, long1, lat2, long2 float64
		want                     float64
		tolerance                float64
	}{
		{name: "same point", lat1: 51.5, long1: -0.12, lat2: 51.5, long2: -0.12, want: 0, tolerance: 1e-6},
		{name: "one degree of latitude", lat1: 0, long1: 0, lat2: 1, long2: 0, want: 111194.93, tolerance: 1},
		{name: "london to paris", lat1: 51.5074, long1: -0.1278, lat2: 48.8566, long2: 2.3522, want: 343556, tolerance: 500},
		{name: "antipodes", lat1: 0, long1: 0, lat2: 0, long2: 180, want: math.Pi * EarthRadius, tolerance: 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.long1, tt.lat2, tt.long2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(10, 20, -30, 40)
	b := Distance(-30, 40, 10, 20)
	if math.Abs(a-b) > 1e-6 {
		t.Errorf("Distance not symmetric: %f vs %f", a, b)
	}
}
