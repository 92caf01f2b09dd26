package world

import "errors"

// Precondition violations. The operation that returns one has not changed any state.
var (
	ErrUnknownCell       = errors.New("cell is not part of the grid")
	ErrBelowZero         = errors.New("cannot lower below zero")
	ErrSurfaceTransition = errors.New("surface transition not allowed")
	ErrOccupied          = errors.New("cell already occupied")
	ErrUnknownInstance   = errors.New("unknown object instance")
	ErrEmptyLift         = errors.New("lift has no nodes")
)

// ErrIntegrity marks an inconsistency between the grid's internal maps.
var ErrIntegrity = errors.New("grid integrity violated")
