package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// sweepBox moves a box with half extents half from center along delta and
// returns the fraction of delta at which it first touches bb. A box that
// already overlaps bb hits at 0. Boxes that only share an edge on the axis
// perpendicular to the motion do not hit.
func sweepBox(center, half, delta cp.Vector, bb cp.BB) (float64, cp.Vector, bool) {
	minX, maxX := bb.L-half.X, bb.R+half.X
	minY, maxY := bb.B-half.Y, bb.T+half.Y

	tmin, tmax := 0.0, 1.0
	var normal cp.Vector

	if delta.X != 0 {
		inv := 1.0 / delta.X
		t1 := (minX - center.X) * inv
		t2 := (maxX - center.X) * inv
		n := cp.Vector{X: -1}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = cp.Vector{X: 1}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if center.X <= minX || center.X >= maxX {
		return 0, cp.Vector{}, false
	}

	if delta.Y != 0 {
		inv := 1.0 / delta.Y
		t1 := (minY - center.Y) * inv
		t2 := (maxY - center.Y) * inv
		n := cp.Vector{Y: -1}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = cp.Vector{Y: 1}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if center.Y <= minY || center.Y >= maxY {
		return 0, cp.Vector{}, false
	}

	if tmax < tmin || tmax <= 0 {
		return 0, cp.Vector{}, false
	}
	if normal == (cp.Vector{}) {
		// Started overlapping: report the surface opposing the motion.
		normal = delta.Normalize().Neg()
	}
	return tmin, normal, true
}

func offsetBB(bb cp.BB, by cp.Vector) cp.BB {
	return cp.BB{L: bb.L + by.X, B: bb.B + by.Y, R: bb.R + by.X, T: bb.T + by.Y}
}

func boxBB(center, size cp.Vector) cp.BB {
	return cp.BB{
		L: center.X - size.X/2,
		B: center.Y - size.Y/2,
		R: center.X + size.X/2,
		T: center.Y + size.Y/2,
	}
}
