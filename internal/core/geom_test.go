package core

import (
	"math"
	"testing"
)

func TestVec2Normalized(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec2
		want   Vec2
		wantOK bool
	}{
		{name: "unit x", v: V(5, 0), want: V(1, 0), wantOK: true},
		{name: "diagonal", v: V(3, 4), want: V(0.6, 0.8), wantOK: true},
		{name: "zero vector", v: V(0, 0), want: V(0, 0), wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.v.Normalized()
			if ok != tc.wantOK {
				t.Fatalf("Normalized() ok = %v, expected %v", ok, tc.wantOK)
			}
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("Normalized() = %+v, expected %+v", got, tc.want)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Errorf("Normalized() produced NaN: %+v", got)
			}
		})
	}
}

func TestVec2MoveToward(t *testing.T) {
	tests := []struct {
		name        string
		from, to    Vec2
		step        float64
		want        Vec2
		wantArrived bool
	}{
		{name: "partial step", from: V(0, 0), to: V(10, 0), step: 4, want: V(4, 0), wantArrived: false},
		{name: "snap within step", from: V(0, 0), to: V(3, 4), step: 5.5, want: V(3, 4), wantArrived: true},
		{name: "exact step", from: V(0, 0), to: V(0, 5), step: 5, want: V(0, 5), wantArrived: true},
		{name: "coincident points", from: V(7, 7), to: V(7, 7), step: 1, want: V(7, 7), wantArrived: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, arrived := tc.from.MoveToward(tc.to, tc.step)
			if arrived != tc.wantArrived {
				t.Errorf("arrived = %v, expected %v", arrived, tc.wantArrived)
			}
			if got.Dist(tc.want) > 1e-9 {
				t.Errorf("MoveToward() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestVec2Dist(t *testing.T) {
	if d := V(0, 0).Dist(V(3, 4)); d != 5 {
		t.Errorf("Dist = %v, expected 5", d)
	}
	if d := V(1, 1).Sub(V(1, 1)).Len(); d != 0 {
		t.Errorf("Len of zero vector = %v, expected 0", d)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		x, y     int
		expected bool
	}{
		{15, 15, true},
		{10, 10, true},
		{29, 29, true},
		{30, 30, false},
		{9, 15, false},
		{15, 30, false},
	}

	for _, tc := range tests {
		if got := r.Contains(tc.x, tc.y); got != tc.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		name          string
		val, min, max float64
		expected      float64
	}{
		{"within range", 0.5, 0, 1, 0.5},
		{"below min", -0.5, 0, 1, 0},
		{"above max", 1.5, 0, 1, 1},
		{"NaN collapses to min", math.NaN(), 0, 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
				t.Errorf("ClampF(%v) = %v, expected %v", tc.val, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(15, 0, 10) != 10 || Clamp(-5, 0, 10) != 0 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp returned unexpected values")
	}
}
