package component

import "github.com/milk9111/movecore/common"

// JumpTimers holds event timestamps in controller seconds. NegInf means the
// event has not happened.
type JumpTimers struct {
	TimeLeftGrounded float64
	TimeJumpPressed  float64
	CoyoteAvailable  bool
}

func NewJumpTimers() JumpTimers {
	return JumpTimers{
		TimeLeftGrounded: common.NegInf,
		TimeJumpPressed:  common.NegInf,
	}
}

func (t *JumpTimers) Reset() {
	if t == nil {
		return
	}
	*t = NewJumpTimers()
}
