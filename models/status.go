package models

// BookingStatus is the canonical lifecycle state of a booking. Every status
// write goes through a guarded transition; ad-hoc string comparison against
// this field outside the transition table is a bug.
type BookingStatus string

const (
	StatusSearching           BookingStatus = "Searching"
	StatusPendingConfirmation BookingStatus = "Pending Confirmation"
	StatusAwaitingOperator    BookingStatus = "Awaiting Operator"
	StatusConfirmed           BookingStatus = "Confirmed"
	StatusArrived             BookingStatus = "Arrived"
	StatusInProcess           BookingStatus = "In Process"
	StatusPendingPayment      BookingStatus = "Pending Payment"
	StatusCompleted           BookingStatus = "Completed"
	StatusCancelled           BookingStatus = "Cancelled"
	StatusExpired             BookingStatus = "Expired"
)

// transitions is the exhaustive edge set of the booking lifecycle. Terminal
// states have no outgoing edges.
var transitions = map[BookingStatus][]BookingStatus{
	StatusSearching:           {StatusConfirmed, StatusAwaitingOperator, StatusCancelled, StatusExpired},
	StatusPendingConfirmation: {StatusConfirmed, StatusSearching, StatusCancelled, StatusExpired},
	StatusAwaitingOperator:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:           {StatusArrived, StatusCancelled},
	StatusArrived:             {StatusInProcess},
	StatusInProcess:           {StatusPendingPayment},
	StatusPendingPayment:      {StatusCompleted},
	StatusCompleted:           {},
	StatusCancelled:           {},
	StatusExpired:             {},
}

// CanTransitionTo reports whether the edge s -> target exists in the lifecycle.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// In reports whether s is one of the given states.
func (s BookingStatus) In(states ...BookingStatus) bool {
	for _, st := range states {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a known lifecycle state.
func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Cancellable lists the states a requester may cancel from: everything before
// work has physically started.
var Cancellable = []BookingStatus{
	StatusSearching,
	StatusPendingConfirmation,
	StatusAwaitingOperator,
	StatusConfirmed,
}

// Acceptable lists the states the acceptance engine may resolve from.
var Acceptable = []BookingStatus{
	StatusSearching,
	StatusPendingConfirmation,
	StatusAwaitingOperator,
}
