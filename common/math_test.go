package common

import (
	"math"
	"testing"
)

func TestMoveTowardsNeverOvershoots(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		target   float64
		maxDelta float64
		want     float64
	}{
		{"step_up", 0, 10, 3, 3},
		{"step_down", 0, -10, 3, -3},
		{"reach_exact", 9, 10, 3, 10},
		{"already_there", 4, 4, 1, 4},
		{"zero_rate", 2, 10, 0, 2},
		{"negative_rate_ignored", 2, 10, -5, 2},
		{"large_rate", -16, 16, 1000, 16},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MoveTowards(c.current, c.target, c.maxDelta)
			if got != c.want {
				t.Fatalf("MoveTowards(%v, %v, %v) = %v, want %v", c.current, c.target, c.maxDelta, got, c.want)
			}
			if math.Abs(got-c.target) > math.Abs(c.current-c.target) {
				t.Fatalf("overshoot: |%v-%v| > |%v-%v|", got, c.target, c.current, c.target)
			}
		})
	}
}

func TestMoveTowardsSweep(t *testing.T) {
	for current := -20.0; current <= 20; current += 0.75 {
		for target := -20.0; target <= 20; target += 1.25 {
			for _, rate := range []float64{0.01, 0.5, 3, 50} {
				got := MoveTowards(current, target, rate)
				if math.Abs(got-target) > math.Abs(current-target) {
					t.Fatalf("overshoot current=%v target=%v rate=%v got=%v", current, target, rate, got)
				}
			}
		}
	}
}

func TestSignAndClamp(t *testing.T) {
	if Sign(-0.3) != -1 || Sign(0) != 0 || Sign(2) != 1 {
		t.Fatalf("unexpected Sign results")
	}
	if Clamp(3, -1, 1) != 1 || Clamp(-3, -1, 1) != -1 || Clamp(0.5, -1, 1) != 0.5 {
		t.Fatalf("unexpected Clamp results")
	}
}
