package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/common"
	"github.com/milk9111/movecore/prefabs"
)

// camera eases toward its target: a follow step proportional to the
// distance, then smoothed against the previous position.
type camera struct {
	spec prefabs.CameraSpec
	pos  cp.Vector
}

func newCamera(spec prefabs.CameraSpec, at cp.Vector) *camera {
	if spec.Zoom <= 0 {
		spec.Zoom = 32
	}
	c := &camera{spec: spec}
	c.snap(at)
	return c
}

func (c *camera) snap(target cp.Vector) {
	c.pos = target.Add(c.offset())
}

func (c *camera) offset() cp.Vector {
	return cp.Vector{X: c.spec.OffsetX, Y: c.spec.OffsetY}
}

func (c *camera) update(target cp.Vector, dt float64) {
	desired := target.Add(c.offset())
	step := desired.Sub(c.pos).Mult(common.Clamp(c.spec.FollowSpeed*dt, 0, 1))
	next := c.pos.Add(step)
	c.pos = cp.Vector{
		X: common.Lerp(next.X, c.pos.X, c.spec.Smoothing),
		Y: common.Lerp(next.Y, c.pos.Y, c.spec.Smoothing),
	}
}

// toScreen maps a y-up world point to screen pixels.
func (c *camera) toScreen(p cp.Vector, w, h float64) (float64, float64) {
	return (p.X-c.pos.X)*c.spec.Zoom + w/2, (c.pos.Y-p.Y)*c.spec.Zoom + h/2
}
