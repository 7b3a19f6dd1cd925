package sim

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Only ErrConfigInvalid is ever returned by the
// package (from the two Validate methods, NewSimulation and
// LoadModelConfig). No code in the
// package returns or records the other three: a rejected action is
// reported through ActionResult.Success/Reason, a trapped responder through
// TacticalCoordinator.Trapped, and the item-generation cap is handled
// inside GenerateRescueItems.
var (
	// ErrConfigInvalid marks a structural problem in a BuildingConfig:
	// missing endpoints, negative capacities, no exits, duplicate ids.
	ErrConfigInvalid = errors.New("evacsim: invalid building config")

	// ErrActionRejected marks an action impossible in the current state
	// (blocked edge, out-of-range count, wrong vertex kind).
	ErrActionRejected = errors.New("evacsim: action rejected")

	// ErrTrappedResponder marks a responder with no path to any exit.
	ErrTrappedResponder = errors.New("evacsim: responder trapped")

	// ErrOptimizationBudgetExceeded marks item generation that would
	// exceed the implementer cap; handled by shrinking K, never fatal.
	ErrOptimizationBudgetExceeded = errors.New("evacsim: optimization budget exceeded")
)

// configError wraps a formatted message while unwrapping to
// ErrConfigInvalid, so callers can test with errors.Is(err, ErrConfigInvalid).
type configError struct {
	msg string
}

func configErrorf(format string, args ...any) error {
	return &configError{msg: fmt.Sprintf(format, args...)}
}

func (e *configError) Error() string { return e.msg }

func (e *configError) Unwrap() error { return ErrConfigInvalid }
