package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

// landingNormal is how far a contact normal must point down for the
// character to count as standing on the collider.
const landingNormal = -0.7

// PlatformDropSystem runs the one-way platform state machine:
// off, on platform, suppressed after a drop, recovering until ground is
// found below.
type PlatformDropSystem struct{}

func NewPlatformDropSystem() *PlatformDropSystem {
	return &PlatformDropSystem{}
}

// HandleContact applies one contact event to the link.
func (p *PlatformDropSystem) HandleContact(link *component.PlatformLink, ev physics.ContactEvent) {
	if link == nil || ev.Layer != physics.LayerPlatform {
		return
	}
	switch ev.Kind {
	case physics.ContactEnter:
		if ev.Collider == link.Suppressed || ev.Normal.Y > landingNormal {
			return
		}
		link.Platform = ev.Collider
		link.OnPlatform = true
	case physics.ContactExit:
		if ev.Collider != link.Platform {
			return
		}
		link.Platform = 0
		link.OnPlatform = false
		link.Recovering = true
	}
}

// Forget drops handles that no longer resolve.
func (p *PlatformDropSystem) Forget(b physics.Backend, link *component.PlatformLink) {
	if b == nil || link == nil {
		return
	}
	if link.Platform.Valid() && !b.Alive(link.Platform) {
		link.Platform = 0
		link.OnPlatform = false
	}
	if link.Suppressed.Valid() && !b.Alive(link.Suppressed) {
		link.Clear()
	}
}

// Drop disables collision with the platform the character stands on. It is
// a no-op off a platform or when the backend cannot suppress pairs.
func (p *PlatformDropSystem) Drop(b physics.Backend, s physics.PairSuppressor, st *component.CharacterState, link *component.PlatformLink) error {
	if b == nil || s == nil || st == nil || link == nil {
		return nil
	}
	if !link.OnPlatform || !b.Alive(link.Platform) {
		return nil
	}
	target := link.Platform
	if err := s.SetCollisionIgnored(target, true); err != nil {
		return fmt.Errorf("platform drop %s: %w", target, err)
	}
	link.Suppressed = target
	link.Platform = 0
	link.OnPlatform = false
	link.Recovering = true
	st.Dropping = true
	return nil
}

// Rearm looks for ground under the feet while recovering and restores
// collision with the suppressed platform once it is found.
func (p *PlatformDropSystem) Rearm(b physics.Backend, s physics.PairSuppressor, st *component.CharacterState, link *component.PlatformLink, cfg component.MovementConfig) error {
	if b == nil || st == nil || link == nil || !link.Recovering {
		return nil
	}
	if link.Suppressed.Valid() && !b.Alive(link.Suppressed) {
		link.Clear()
		st.Dropping = false
		return nil
	}

	restore := withoutSelfQueries(b)
	defer restore()

	bb := b.Bounds()
	origin := cp.Vector{
		X: (bb.L + bb.R) / 2,
		Y: bb.B - cfg.PlatformRayOffset - cfg.PlatformBoxThickness/2,
	}
	size := cp.Vector{X: bb.R - bb.L, Y: cfg.PlatformBoxThickness}
	q := physics.Query{Mask: physics.LayerGround, Ignore: link.Suppressed}
	if _, ok := b.BoxCast(origin, size, down, cfg.PlatformCastDistance, q); !ok {
		return nil
	}

	if link.Suppressed.Valid() && s != nil {
		if err := s.SetCollisionIgnored(link.Suppressed, false); err != nil {
			return fmt.Errorf("platform rearm %s: %w", link.Suppressed, err)
		}
	}
	link.Suppressed = 0
	link.Recovering = false
	st.Dropping = false
	return nil
}

// Release restores any suppressed pair and clears the link.
func (p *PlatformDropSystem) Release(s physics.PairSuppressor, st *component.CharacterState, link *component.PlatformLink) error {
	if link == nil {
		return nil
	}
	var err error
	if s != nil && link.Suppressed.Valid() && s.CollisionIgnored(link.Suppressed) {
		err = s.SetCollisionIgnored(link.Suppressed, false)
	}
	link.Clear()
	if st != nil {
		st.Dropping = false
	}
	return err
}
