package physics

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
)

// ErrDisposed is reported once a world is closed or a character body has
// been removed from it.
var ErrDisposed = errors.New("physics: handle disposed")

// Layer is a collider category bit.
type Layer uint

const (
	LayerCharacter Layer = 1 << iota
	LayerSolid
	LayerPlatform
)

const (
	LayerGround Layer = LayerSolid | LayerPlatform
	LayerAll    Layer = LayerCharacter | LayerGround
)

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

func (l Layer) String() string {
	switch l {
	case LayerCharacter:
		return "character"
	case LayerSolid:
		return "solid"
	case LayerPlatform:
		return "platform"
	case LayerGround:
		return "ground"
	case LayerAll:
		return "all"
	}
	return "mixed"
}

// Query filters a cast. Colliders outside Mask are skipped, as is Ignore.
type Query struct {
	Mask   Layer
	Ignore ecs.Entity
}

// Hit describes the first collider touched by a cast.
type Hit struct {
	Collider ecs.Entity
	Layer    Layer
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

type ContactKind uint8

const (
	ContactEnter ContactKind = iota + 1
	ContactExit
)

// ContactEvent is a collision enter/exit notification for one character.
type ContactEvent struct {
	Kind     ContactKind
	Collider ecs.Entity
	Layer    Layer
	Normal   cp.Vector
}

// Backend is the per-character view of a physics world used by the movement
// systems. All queries are synchronous.
type Backend interface {
	BoxCast(origin, size, dir cp.Vector, distance float64, q Query) (Hit, bool)
	RayCast(origin, dir cp.Vector, distance float64, q Query) (Hit, bool)

	// QueriesHitSelf reports whether casts may return the character's own
	// collider.
	QueriesHitSelf() bool
	SetQueriesHitSelf(bool)

	Bounds() cp.BB
	Position() cp.Vector
	SetPosition(cp.Vector)
	Velocity() cp.Vector
	SetVelocity(cp.Vector)

	// Contacts drains the enter/exit events since the last call.
	Contacts() []ContactEvent
	// Alive reports whether a collider handle still resolves.
	Alive(ecs.Entity) bool
	// Err is non-nil once the backend can no longer be used.
	Err() error
}

// PairSuppressor disables collision between the character and one collider.
type PairSuppressor interface {
	SetCollisionIgnored(other ecs.Entity, ignored bool) error
	CollisionIgnored(other ecs.Entity) bool
}
