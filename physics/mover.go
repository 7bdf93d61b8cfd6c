package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Mover drives a kinematic platform back and forth with a tween. The body
// is moved through its velocity so resting characters are carried.
type Mover struct {
	platform ecs.Entity
	body     *cp.Body
	origin   cp.Vector
	delta    cp.Vector
	duration float32
	forward  bool
	tween    *gween.Tween
}

func newMover(platform ecs.Entity, body *cp.Body, origin, delta cp.Vector, duration float64) *Mover {
	return &Mover{
		platform: platform,
		body:     body,
		origin:   origin,
		delta:    delta,
		duration: float32(duration),
		forward:  true,
		tween:    gween.New(0, 1, float32(duration), ease.InOutQuad),
	}
}

func (m *Mover) advance(dt float64) {
	if m == nil || m.body == nil || dt <= 0 {
		return
	}
	progress, finished := m.tween.Update(float32(dt))
	if finished {
		m.forward = !m.forward
		if m.forward {
			m.tween = gween.New(0, 1, m.duration, ease.InOutQuad)
		} else {
			m.tween = gween.New(1, 0, m.duration, ease.InOutQuad)
		}
	}
	target := m.origin.Add(m.delta.Mult(float64(progress)))
	m.body.SetVelocityVector(target.Sub(m.body.Position()).Mult(1 / dt))
}
