package component

import "github.com/milk9111/movecore/ecs"

// PlatformLink tracks the one-way platform under the character. Handles
// are weak and generation-checked; the physics world owns the colliders.
type PlatformLink struct {
	Platform   ecs.Entity
	OnPlatform bool
	// Suppressed is the platform whose collision is disabled, if any.
	Suppressed ecs.Entity
	// Recovering is set while waiting for a ground hit to re-arm.
	Recovering bool
}

func (l *PlatformLink) Clear() {
	if l == nil {
		return
	}
	*l = PlatformLink{}
}
