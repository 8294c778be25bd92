package domain

import (
	"testing"
)

func TestRouteAdd(t *testing.T) {
	// build test data
	s1 := Stop{ID: 1, Weight: 40}
	s2 := Stop{ID: 2, Weight: 40}
	s3 := Stop{ID: 3, Weight: 40}

	route := NewRoute(Vehicle{ID: 7, Capacity: 100})

	// call the method under test
	for _, s := range []Stop{s1, s2} {
		if err := route.Add(s); err != nil {
			t.Fatalf("unexpected error adding stop %d: %v", s.ID, err)
		}
	}

	// verify behavior
	if err := route.Add(s3); err == nil {
		t.Fatalf("expected capacity error for stop %d", s3.ID)
	}

	if route.TotalWeight != 80 {
		t.Errorf("total weight = %v, want 80", route.TotalWeight)
	}
	if got := route.Remaining(); got != 20 {
		t.Errorf("remaining = %v, want 20", got)
	}

	ids := route.StopIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("stop ids = %v, want [1 2]", ids)
	}
}

func TestRouteFitsExactCapacity(t *testing.T) {
	route := NewRoute(Vehicle{ID: 1, Capacity: 50})
	if !route.Fits(Stop{ID: 1, Weight: 50}) {
		t.Fatal("stop filling capacity exactly should fit")
	}

	empty := NewRoute(Vehicle{ID: 2, Capacity: 0})
	if empty.Fits(Stop{ID: 1, Weight: 0.1}) {
		t.Fatal("zero-capacity vehicle should not fit a positive weight")
	}
}

func TestVehicleWithCapacityLimit(t *testing.T) {
	tests := []struct {
		name  string
		cap   float64
		limit float64
		want  float64
	}{
		{name: "vehicle smaller than limit", cap: 80, limit: 100, want: 80},
		{name: "vehicle larger than limit", cap: 500, limit: 100, want: 100},
		{name: "undeclared capacity", cap: 0, limit: 100, want: 100},
		{name: "zero limit", cap: 300, limit: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vehicle{ID: 1, Capacity: tt.cap}
			got := v.WithCapacityLimit(tt.limit)
			if got.Capacity != tt.want {
				t.Fatalf("capacity = %v, want %v", got.Capacity, tt.want)
			}
			if v.Capacity != tt.cap {
				t.Fatalf("original vehicle mutated: %v", v.Capacity)
			}
		})
	}
}
