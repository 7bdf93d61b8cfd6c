package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

// stackedPlatforms builds two platforms, one above the other, with the
// character standing on the upper one.
func stackedPlatforms(t *testing.T) (*fakeBackend, ecs.Entity, ecs.Entity) {
	t.Helper()
	f := newFakeBackend(cp.Vector{Y: 4.75})
	f.add(floorBB, physics.LayerSolid)
	upper := f.add(cp.BB{L: -3, B: 4, R: 3, T: 4.25}, physics.LayerPlatform)
	lower := f.add(cp.BB{L: -3, B: 1.5, R: 3, T: 1.75}, physics.LayerPlatform)
	return f, upper, lower
}

func drop(t *testing.T, c *Controller, f *fakeBackend) {
	t.Helper()
	c.Push(component.InputCommand{Kind: component.InputDropDown})
	advance(t, c, f, 1)
	c.Push(component.InputCommand{Kind: component.InputDropUp})
}

func TestDropSuppressesOnlyContactedPlatform(t *testing.T) {
	f, upper, lower := stackedPlatforms(t)
	c := newTestController(t, f, nil)
	advance(t, c, f, 3)

	link := c.Snapshot().Link
	if !link.OnPlatform || link.Platform != upper {
		t.Fatalf("not attached to the upper platform: %+v", link)
	}

	drop(t, c, f)
	snap := c.Snapshot()
	if snap.Link.Suppressed != upper || !snap.Link.Recovering || snap.Link.OnPlatform {
		t.Fatalf("bad link after drop: %+v", snap.Link)
	}
	if !snap.State.Dropping {
		t.Fatalf("Dropping not set")
	}
	if !f.CollisionIgnored(upper) || f.CollisionIgnored(lower) {
		t.Fatalf("ignored pairs: upper=%v lower=%v", f.CollisionIgnored(upper), f.CollisionIgnored(lower))
	}

	advance(t, c, f, 120)
	if got := f.Bounds().B; got != 1.75 {
		t.Fatalf("character bottom = %v, want to rest on the lower platform at 1.75", got)
	}
	snap = c.Snapshot()
	if f.CollisionIgnored(upper) {
		t.Fatalf("upper platform never re-armed")
	}
	if snap.Link.Suppressed.Valid() || snap.Link.Recovering || snap.State.Dropping {
		t.Fatalf("link not settled: %+v", snap.Link)
	}
	if !snap.Link.OnPlatform || snap.Link.Platform != lower {
		t.Fatalf("not attached to the lower platform: %+v", snap.Link)
	}
}

func TestDropWithoutSuppressorIsSkipped(t *testing.T) {
	f, upper, _ := stackedPlatforms(t)
	c := newTestController(t, plainBackend{f}, nil)
	advance(t, c, f, 3)

	drop(t, c, f)
	advance(t, c, f, 30)
	snap := c.Snapshot()
	if f.CollisionIgnored(upper) || snap.Link.Suppressed.Valid() {
		t.Fatalf("suppression applied without a PairSuppressor")
	}
	if got := f.Bounds().B; got != 4.25 {
		t.Fatalf("character fell to %v, want to stay on 4.25", got)
	}
}

func TestDropOffPlatformDoesNothing(t *testing.T) {
	f := newFakeBackend(cp.Vector{Y: 0.5})
	f.add(floorBB, physics.LayerSolid)
	c := newTestController(t, f, nil)
	advance(t, c, f, 3)

	drop(t, c, f)
	if link := c.Snapshot().Link; link != (component.PlatformLink{}) {
		t.Fatalf("link changed on solid ground: %+v", link)
	}
}

func TestSuppressedPlatformDestroyed(t *testing.T) {
	f, upper, _ := stackedPlatforms(t)
	c := newTestController(t, f, nil)
	advance(t, c, f, 3)
	drop(t, c, f)

	f.remove(upper)
	advance(t, c, f, 1)
	if link := c.Snapshot().Link; link != (component.PlatformLink{}) {
		t.Fatalf("link kept a dead handle: %+v", link)
	}
}

func TestRespawnReleasesSuppressedPlatform(t *testing.T) {
	f, upper, _ := stackedPlatforms(t)
	c := newTestController(t, f, nil)
	advance(t, c, f, 3)
	drop(t, c, f)

	if err := c.Respawn(cp.Vector{Y: 0.5}); err != nil {
		t.Fatalf("Respawn: %v", err)
	}
	if f.CollisionIgnored(upper) {
		t.Fatalf("respawn left the platform suppressed")
	}
	if link := c.Snapshot().Link; link != (component.PlatformLink{}) {
		t.Fatalf("link not cleared: %+v", link)
	}
}

func TestWalkOffPlatformRearmsWithoutSuppression(t *testing.T) {
	p := NewPlatformDropSystem()
	var link component.PlatformLink
	plat := ecs.Entity(1)

	p.HandleContact(&link, physics.ContactEvent{Kind: physics.ContactEnter, Collider: plat, Layer: physics.LayerPlatform, Normal: cp.Vector{Y: -1}})
	if !link.OnPlatform || link.Platform != plat {
		t.Fatalf("enter did not attach: %+v", link)
	}
	p.HandleContact(&link, physics.ContactEvent{Kind: physics.ContactExit, Collider: plat, Layer: physics.LayerPlatform})
	if link.OnPlatform || !link.Recovering || link.Suppressed.Valid() {
		t.Fatalf("exit should start recovery with no suppression: %+v", link)
	}
}

func TestHandleContactIgnoresSideAndSolidHits(t *testing.T) {
	p := NewPlatformDropSystem()
	var link component.PlatformLink

	p.HandleContact(&link, physics.ContactEvent{Kind: physics.ContactEnter, Collider: 1, Layer: physics.LayerPlatform, Normal: cp.Vector{Y: 1}})
	p.HandleContact(&link, physics.ContactEvent{Kind: physics.ContactEnter, Collider: 2, Layer: physics.LayerSolid, Normal: cp.Vector{Y: -1}})
	if link != (component.PlatformLink{}) {
		t.Fatalf("link changed: %+v", link)
	}
}
