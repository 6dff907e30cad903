package models

// Action is an actor-initiated lifecycle operation on an appointment.
// Rescheduling is deliberately absent: it changes the slot, never the status.
type Action string

const (
	ActionAccept           Action = "accept"
	ActionCancel           Action = "cancel"
	ActionCancelByProvider Action = "cancel_by_provider"
	ActionComplete         Action = "complete"
	ActionFail             Action = "fail"
)

// Actor roles as stored in the roles table, plus the internal system actor used
// by the payment verification and expiry paths.
const (
	ActorAdmin   = "Admin"
	ActorDoctor  = "Doctor"
	ActorPatient = "Patient"
	ActorSystem  = "System"
)

type transition struct {
	from   []AppointmentStatus
	next   AppointmentStatus
	actors []string
}

var transitionMap = map[Action]transition{
	ActionAccept: {
		from:   []AppointmentStatus{StatusPending},
		next:   StatusAccepted,
		actors: []string{ActorDoctor},
	},
	ActionCancel: {
		from:   []AppointmentStatus{StatusPending, StatusAccepted},
		next:   StatusCancelled,
		actors: []string{ActorPatient, ActorDoctor, ActorAdmin},
	},
	ActionCancelByProvider: {
		from:   []AppointmentStatus{StatusAccepted},
		next:   StatusCancelledByProvider,
		actors: []string{ActorDoctor},
	},
	ActionComplete: {
		from:   []AppointmentStatus{StatusAccepted},
		next:   StatusCompleted,
		actors: []string{ActorDoctor},
	},
	// fail is reachable only from the payment path: an unpaid pending booking.
	ActionFail: {
		from:   []AppointmentStatus{StatusPending},
		next:   StatusFailed,
		actors: []string{ActorSystem},
	},
}

// IsTerminal reports whether no transition may ever leave the given status.
func IsTerminal(status AppointmentStatus) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusCancelledByProvider, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether the actor may apply the action to an
// appointment in the given status.
func CanTransition(status AppointmentStatus, action Action, actor string) bool {
	t, ok := transitionMap[action]
	if !ok {
		return false
	}
	fromOK := false
	for _, s := range t.from {
		if s == status {
			fromOK = true
			break
		}
	}
	if !fromOK {
		return false
	}
	for _, a := range t.actors {
		if a == actor {
			return true
		}
	}
	return false
}

// NextStatus returns the status the action leads to.
func NextStatus(action Action) (AppointmentStatus, bool) {
	t, ok := transitionMap[action]
	if !ok {
		return "", false
	}
	return t.next, true
}
