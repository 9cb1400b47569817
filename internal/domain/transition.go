package domain

import "platefast/internal/errors"

// legalTransitions is the authoritative lifecycle graph. Every status
// write anywhere in the system goes through CheckTransition before it
// touches the store.
//
// PREPARING and ACCEPTED_BY_DELIVERY commute: a restaurant may start
// preparing before or after a delivery person claims the order.
var legalTransitions = map[Status][]Status{
	StatusPending:              {StatusAcceptedByRestaurant, StatusCancelled},
	StatusAcceptedByRestaurant: {StatusPreparing, StatusAcceptedByDelivery, StatusCancelled},
	StatusPreparing:            {StatusAcceptedByDelivery, StatusCancelled},
	StatusAcceptedByDelivery:   {StatusPreparing, StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery:       {StatusDelivered, StatusCancelled},
	StatusDelivered:            {},
	StatusCancelled:            {},
}

// progressSequence is the canonical happy path used for customer-facing
// progress display. CANCELLED has no position in it.
var progressSequence = []Status{
	StatusPending,
	StatusAcceptedByRestaurant,
	StatusPreparing,
	StatusAcceptedByDelivery,
	StatusOutForDelivery,
	StatusDelivered,
}

func CanTransition(current, requested Status) bool {
	for _, next := range legalTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// CheckTransition returns an IllegalTransitionError naming both states
// when the edge is not in the lifecycle graph. Requesting the current
// status again is illegal, not a no-op.
func CheckTransition(current, requested Status) error {
	if !CanTransition(current, requested) {
		return errors.NewIllegalTransitionError(string(current), string(requested))
	}
	return nil
}

func NextLegalStates(current Status) []Status {
	edges := legalTransitions[current]
	out := make([]Status, len(edges))
	copy(out, edges)
	return out
}

func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ProgressIndex maps a status to its position on the canonical forward
// sequence. The second return is false for CANCELLED and for unknown
// statuses, which have no position on the happy path.
func ProgressIndex(s Status) (int, bool) {
	for i, status := range progressSequence {
		if status == s {
			return i, true
		}
	}
	return 0, false
}

// ProgressStages is the length of the canonical forward sequence.
func ProgressStages() int {
	return len(progressSequence)
}
