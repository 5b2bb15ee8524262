package domain

import (
	"fmt"
	"strings"
)

// Role is the acting user's relation to a meetup.
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
	RoleNone   Role = "none"
)

// RoleOf returns the role actorID plays on m.
func RoleOf(m *Meetup, actorID string) Role {
	switch {
	case actorID == "":
		return RoleNone
	case actorID == m.SellerID:
		return RoleSeller
	case actorID == m.BuyerID:
		return RoleBuyer
	}
	return RoleNone
}

// Action is a requested lifecycle transition.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Actions lists every action in a stable order.
var Actions = []Action{ActionAccept, ActionDecline, ActionCancel, ActionComplete}

// RequiresReason reports whether a performs a cancellation and so needs a reason.
func (a Action) RequiresReason() bool {
	return a == ActionDecline || a == ActionCancel
}

type transitionKey struct {
	from   MeetupStatus
	action Action
	role   Role
}

// transitions is the complete legality table. Anything absent is illegal.
var transitions = map[transitionKey]MeetupStatus{
	{StatusPending, ActionAccept, RoleBuyer}:     StatusConfirmed,
	{StatusPending, ActionDecline, RoleBuyer}:    StatusCancelledByBuyer,
	{StatusPending, ActionCancel, RoleSeller}:    StatusCancelledBySeller,
	{StatusConfirmed, ActionCancel, RoleBuyer}:   StatusCancelledByBuyer,
	{StatusConfirmed, ActionCancel, RoleSeller}:  StatusCancelledBySeller,
	{StatusConfirmed, ActionComplete, RoleBuyer}: StatusCompleted,
}

// Transition returns the status reached by applying action as role from the given state.
func Transition(from MeetupStatus, action Action, role Role) (MeetupStatus, error) {
	to, ok := transitions[transitionKey{from: from, action: action, role: role}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s meetup as %s", ErrInvalidTransition, action, from, role)
	}
	return to, nil
}

// AvailableActions returns the actions role may take from status, in Actions order.
func AvailableActions(status MeetupStatus, role Role) []Action {
	var out []Action
	for _, a := range Actions {
		if _, ok := transitions[transitionKey{from: status, action: a, role: role}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// ResolveCancel maps the single cancel request onto the table: a buyer cancelling a
// pending meetup is declining it.
func ResolveCancel(status MeetupStatus, role Role) Action {
	if status == StatusPending && role == RoleBuyer {
		return ActionDecline
	}
	return ActionCancel
}

// StatusChange is a validated transition ready to be persisted.
type StatusChange struct {
	MeetupID string
	Action   Action
	Actor    Role
	From     MeetupStatus
	To       MeetupStatus
	Reason   string
}

// PlanTransition validates a transition request against m. Authorization is checked before
// state validity, and the cancellation reason last.
func PlanTransition(m *Meetup, actorID string, action Action, reason string) (StatusChange, error) {
	role := RoleOf(m, actorID)
	if role == RoleNone {
		return StatusChange{}, fmt.Errorf("%w: user is not a party to meetup %s", ErrUnauthorized, m.ID)
	}
	to, err := Transition(m.Status, action, role)
	if err != nil {
		return StatusChange{}, err
	}
	c := StatusChange{
		MeetupID: m.ID,
		Action:   action,
		Actor:    role,
		From:     m.Status,
		To:       to,
	}
	if action.RequiresReason() {
		c.Reason = strings.TrimSpace(reason)
		if c.Reason == "" {
			return StatusChange{}, NewValidationError("cancellation reason is required")
		}
	}
	return c, nil
}
