package utils

import "testing"

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{10.004, 10.0},
		{10.005, 10.01},
		{99.999, 100.0},
		{-0.005, -0.01},
		{0.1 + 0.2, 0.3},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); got != tt.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApproxEqual(t *testing.T) {
	if !ApproxEqual(100, 100.005) {
		t.Error("amounts within epsilon should compare equal")
	}
	if ApproxEqual(100, 100.02) {
		t.Error("amounts a full cent apart should not compare equal")
	}
}

func TestIsPositiveAmount(t *testing.T) {
	if IsPositiveAmount(0) || IsPositiveAmount(-5) {
		t.Error("zero and negative amounts are not positive")
	}
	if !IsPositiveAmount(0.01) {
		t.Error("one cent is positive")
	}
}
