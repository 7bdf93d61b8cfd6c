package component

import "github.com/jakecoffman/cp"

// CharacterState is the per-tick motion state of one character. Only the
// controller mutates it.
type CharacterState struct {
	Position cp.Vector
	Velocity cp.Vector

	Grounded    bool
	JumpHeld    bool
	JumpCut     bool
	ReachedApex bool
	Crouching   bool
	Dropping    bool
	FastFall    bool

	// HorizontalInput is the move axis in [-1,1].
	HorizontalInput float64
}

// Reset returns the state to spawn defaults at pos.
func (s *CharacterState) Reset(pos cp.Vector) {
	if s == nil {
		return
	}
	*s = CharacterState{Position: pos}
}

// Ascending reports upward motion while airborne.
func (s *CharacterState) Ascending() bool {
	return s != nil && !s.Grounded && s.Velocity.Y > 0
}
