// Package driver enforces the four-phase codec lifecycle for load and save
// operations: Init → (SeekNextFrame → Read/WriteFrame)* → Finish. Any call
// out of the permitted order fails with a precondition-violation error
// instead of corrupting codec state.
package driver

import (
	apperrors "github.com/happy-sea-fox/sail/errors"
)

type state int

const (
	stateCreated state = iota
	stateInitialized
	stateFrameReady
	stateFrameRead
	stateFinished
)

func (s state) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateInitialized:
		return "initialized"
	case stateFrameReady:
		return "frame-ready"
	case stateFrameRead:
		return "frame-read"
	case stateFinished:
		return "finished"
	}
	return "invalid"
}

func orderError(op string, current state) error {
	return apperrors.Newf(apperrors.CodeInvalidArgument, op,
		"%w: driver is in state %q", apperrors.ErrOutOfOrderCall, current)
}
