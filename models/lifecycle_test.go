package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		status AppointmentStatus
		action Action
		actor  string
		valid  bool
	}{
		{StatusPending, ActionAccept, ActorDoctor, true},
		{StatusPending, ActionAccept, ActorPatient, false},
		{StatusAccepted, ActionAccept, ActorDoctor, false},
		{StatusPending, ActionCancel, ActorPatient, true},
		{StatusPending, ActionCancel, ActorDoctor, true},
		{StatusPending, ActionCancel, ActorAdmin, true},
		{StatusAccepted, ActionCancel, ActorPatient, true},
		{StatusCompleted, ActionCancel, ActorPatient, false},
		{StatusAccepted, ActionCancelByProvider, ActorDoctor, true},
		{StatusAccepted, ActionCancelByProvider, ActorPatient, false},
		{StatusPending, ActionCancelByProvider, ActorDoctor, false},
		{StatusAccepted, ActionComplete, ActorDoctor, true},
		{StatusPending, ActionComplete, ActorDoctor, false},
		{StatusPending, ActionFail, ActorSystem, true},
		{StatusPending, ActionFail, ActorPatient, false},
		{StatusAccepted, ActionFail, ActorSystem, false},
		{StatusFailed, ActionAccept, ActorDoctor, false},
		{StatusCancelled, ActionComplete, ActorDoctor, false},
		{StatusCancelledByProvider, ActionCancel, ActorPatient, false},
		{StatusPending, Action("unknown"), ActorDoctor, false},
	}

	for _, tt := range cases {
		got := CanTransition(tt.status, tt.action, tt.actor)
		assert.Equalf(t, tt.valid, got, "CanTransition(%q, %q, %q)", tt.status, tt.action, tt.actor)
	}
}

func TestNextStatus(t *testing.T) {
	cases := map[Action]AppointmentStatus{
		ActionAccept:           StatusAccepted,
		ActionCancel:           StatusCancelled,
		ActionCancelByProvider: StatusCancelledByProvider,
		ActionComplete:         StatusCompleted,
		ActionFail:             StatusFailed,
	}
	for action, want := range cases {
		next, ok := NextStatus(action)
		assert.True(t, ok)
		assert.Equal(t, want, next)
	}

	_, ok := NextStatus(Action("reschedule"))
	assert.False(t, ok, "reschedule is a slot change, not a status transition")
}

func TestTerminalStatesAdmitNoTransition(t *testing.T) {
	terminals := []AppointmentStatus{StatusCompleted, StatusCancelled, StatusCancelledByProvider, StatusFailed}
	actions := []Action{ActionAccept, ActionCancel, ActionCancelByProvider, ActionComplete, ActionFail}
	actors := []string{ActorAdmin, ActorDoctor, ActorPatient, ActorSystem}

	for _, status := range terminals {
		assert.True(t, IsTerminal(status))
		for _, action := range actions {
			for _, actor := range actors {
				assert.Falsef(t, CanTransition(status, action, actor),
					"terminal status %q must not allow %q by %q", status, action, actor)
			}
		}
	}

	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusAccepted))
}
