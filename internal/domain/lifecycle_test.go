package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allStatuses = []MeetupStatus{
	StatusPending, StatusConfirmed, StatusCompleted, StatusCancelledBySeller, StatusCancelledByBuyer,
}

var allRoles = []Role{RoleSeller, RoleBuyer, RoleNone}

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name   string
		from   MeetupStatus
		action Action
		role   Role
		want   MeetupStatus
	}{
		{"buyer accepts pending", StatusPending, ActionAccept, RoleBuyer, StatusConfirmed},
		{"buyer declines pending", StatusPending, ActionDecline, RoleBuyer, StatusCancelledByBuyer},
		{"seller cancels pending", StatusPending, ActionCancel, RoleSeller, StatusCancelledBySeller},
		{"buyer cancels confirmed", StatusConfirmed, ActionCancel, RoleBuyer, StatusCancelledByBuyer},
		{"seller cancels confirmed", StatusConfirmed, ActionCancel, RoleSeller, StatusCancelledBySeller},
		{"buyer completes confirmed", StatusConfirmed, ActionComplete, RoleBuyer, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Illegal(t *testing.T) {
	tests := []struct {
		name   string
		from   MeetupStatus
		action Action
		role   Role
	}{
		{"seller accepts own proposal", StatusPending, ActionAccept, RoleSeller},
		{"seller completes", StatusConfirmed, ActionComplete, RoleSeller},
		{"buyer completes pending", StatusPending, ActionComplete, RoleBuyer},
		{"buyer cancels pending instead of declining", StatusPending, ActionCancel, RoleBuyer},
		{"decline confirmed", StatusConfirmed, ActionDecline, RoleBuyer},
		{"complete twice", StatusCompleted, ActionComplete, RoleBuyer},
		{"accept cancelled", StatusCancelledBySeller, ActionAccept, RoleBuyer},
		{"cancel cancelled", StatusCancelledByBuyer, ActionCancel, RoleSeller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action, tt.role)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestTransition_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := rapid.SampledFrom(allStatuses).Draw(t, "from")
		action := rapid.SampledFrom(Actions).Draw(t, "action")
		role := rapid.SampledFrom(allRoles).Draw(t, "role")

		to, err := Transition(from, action, role)
		if from.IsTerminal() && err == nil {
			t.Fatalf("terminal state %s allowed %s", from, action)
		}
		if role == RoleNone && err == nil {
			t.Fatalf("non-party allowed %s from %s", action, from)
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("unexpected error %v", err)
			}
			if to != from {
				t.Fatalf("illegal transition changed status %s -> %s", from, to)
			}
			return
		}
		if to == StatusCompleted && (from != StatusConfirmed || action != ActionComplete) {
			t.Fatalf("completed reached via %s from %s", action, from)
		}
		if !to.Valid() {
			t.Fatalf("unknown status %q", to)
		}
	})
}

func TestPlanTransition_NonPartyAlwaysUnauthorized(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := &Meetup{
			ID:       "m-1",
			SellerID: "seller",
			BuyerID:  "buyer",
			Status:   rapid.SampledFrom(allStatuses).Draw(t, "status"),
		}
		action := rapid.SampledFrom(Actions).Draw(t, "action")
		reason := rapid.SampledFrom([]string{"", "Changed mind"}).Draw(t, "reason")
		actor := rapid.StringMatching(`[a-z]{1,8}`).Filter(func(s string) bool {
			return s != "seller" && s != "buyer"
		}).Draw(t, "actor")

		_, err := PlanTransition(m, actor, action, reason)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("want ErrUnauthorized, got %v", err)
		}
	})
}

func TestPlanTransition(t *testing.T) {
	base := Meetup{ID: "m-1", SellerID: "u1", BuyerID: "u2"}

	tests := []struct {
		name    string
		status  MeetupStatus
		actor   string
		action  Action
		reason  string
		want    MeetupStatus
		wantErr error
	}{
		{name: "accept", status: StatusPending, actor: "u2", action: ActionAccept, want: StatusConfirmed},
		{name: "cancel needs reason", status: StatusPending, actor: "u1", action: ActionCancel, reason: "  ", wantErr: ErrInvalidInput},
		{name: "decline with reason", status: StatusPending, actor: "u2", action: ActionDecline, reason: "Schedule conflict", want: StatusCancelledByBuyer},
		{name: "stranger", status: StatusPending, actor: "u3", action: ActionAccept, wantErr: ErrUnauthorized},
		{name: "empty actor", status: StatusConfirmed, actor: "", action: ActionComplete, wantErr: ErrUnauthorized},
		{name: "terminal state checked before reason", status: StatusCompleted, actor: "u1", action: ActionCancel, wantErr: ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			m.Status = tt.status
			c, err := PlanTransition(&m, tt.actor, tt.action, tt.reason)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, tt.status, m.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, c.From)
			assert.Equal(t, tt.want, c.To)
			assert.Equal(t, "m-1", c.MeetupID)
		})
	}
}

func TestResolveCancel(t *testing.T) {
	assert.Equal(t, ActionDecline, ResolveCancel(StatusPending, RoleBuyer))
	assert.Equal(t, ActionCancel, ResolveCancel(StatusPending, RoleSeller))
	assert.Equal(t, ActionCancel, ResolveCancel(StatusConfirmed, RoleBuyer))
	assert.Equal(t, ActionCancel, ResolveCancel(StatusConfirmed, RoleSeller))
}

func TestAvailableActions(t *testing.T) {
	assert.Equal(t, []Action{ActionAccept, ActionDecline}, AvailableActions(StatusPending, RoleBuyer))
	assert.Equal(t, []Action{ActionCancel}, AvailableActions(StatusPending, RoleSeller))
	assert.Equal(t, []Action{ActionCancel, ActionComplete}, AvailableActions(StatusConfirmed, RoleBuyer))
	assert.Empty(t, AvailableActions(StatusCompleted, RoleBuyer))
	assert.Empty(t, AvailableActions(StatusConfirmed, RoleNone))
}
