// Package copystatus holds the lifecycle of a physical book copy.
//
// A copy moves between four states. on_loan is owned by the loan workflow:
// only creating or returning a loan may enter or leave it.
package copystatus

import "fmt"

type Status string

const (
	Available   Status = "available"
	OnLoan      Status = "on_loan"
	Maintenance Status = "maintenance"
	Lost        Status = "lost"
)

var All = []Status{Available, OnLoan, Maintenance, Lost}

var transitions = map[Status][]Status{
	Available:   {OnLoan, Maintenance, Lost},
	OnLoan:      {Available, Lost},
	Maintenance: {Available, Lost},
	Lost:        {Available, Maintenance},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether from -> to is an edge of the lifecycle.
// Staying in the same state is always allowed.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change copy status from %s to %s: %s", e.From, e.To, e.Reason)
}

// Transition validates a move made by the loan workflow.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to, Reason: "transition not allowed"}
	}
	return nil
}

// ManualTransition validates a move requested directly on a copy.
func ManualTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from == OnLoan || to == OnLoan {
		return &TransitionError{From: from, To: to, Reason: "on_loan is managed by loans"}
	}
	return Transition(from, to)
}

// Initial reports whether a new copy may start in s.
func Initial(s Status) bool {
	return s.Valid() && s != OnLoan
}
