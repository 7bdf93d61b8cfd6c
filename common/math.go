package common

import "math"

// NegInf marks "no event yet" for timestamps.
var NegInf = math.Inf(-1)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveTowards steps current toward target by at most maxDelta and never
// overshoots.
func MoveTowards(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return current
	}
	delta := target - current
	if math.Abs(delta) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, delta)
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
