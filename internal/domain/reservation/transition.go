package reservation

import (
	"fmt"

	"slot-capacity-engine/internal/pkg/errs"
)

// CapacityEffect is the change a transition applies to the resource's committed count.
type CapacityEffect int

const (
	EffectNone CapacityEffect = iota
	EffectReserve
	EffectRelease
)

func (e CapacityEffect) String() string {
	switch e {
	case EffectReserve:
		return "reserve"
	case EffectRelease:
		return "release"
	default:
		return "none"
	}
}

// Delta converts the effect into a store delta for the given quantity.
func (e CapacityEffect) Delta(quantity int) int {
	switch e {
	case EffectReserve:
		return quantity
	case EffectRelease:
		return -quantity
	default:
		return 0
	}
}

// TransitionError names the rejected pair.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "<new>"
	}
	return fmt.Sprintf("illegal reservation transition %s -> %s", from, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == errs.ErrInvalidTransition
}

// The empty source status stands for "no reservation yet".
var transitions = map[Status]map[Status]CapacityEffect{
	"": {
		StatusPendingHold: EffectReserve,
	},
	StatusPendingHold: {
		StatusConfirmed:     EffectNone,
		StatusPaymentFailed: EffectNone,
		StatusCancelled:     EffectRelease,
	},
	StatusConfirmed: {
		StatusCancelled: EffectRelease,
		StatusCompleted: EffectNone,
	},
	StatusPaymentFailed: {
		StatusCancelled: EffectRelease,
	},
}

// Transition validates from -> to and returns its capacity effect.
func Transition(from, to Status) (CapacityEffect, error) {
	targets, ok := transitions[from]
	if !ok {
		return EffectNone, &TransitionError{From: from, To: to}
	}
	effect, ok := targets[to]
	if !ok {
		return EffectNone, &TransitionError{From: from, To: to}
	}
	return effect, nil
}

func CanTransition(from, to Status) bool {
	_, err := Transition(from, to)
	return err == nil
}
