// Package board keeps the acting user's meetup list in sync with the server. Every
// transition is followed by a full refresh; the list is never patched locally.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"acadswap/internal/client/api"
	"acadswap/internal/domain"
)

// Backend is the server surface the board needs. *api.Client satisfies it.
type Backend interface {
	MyMeetups(ctx context.Context, cred api.Credential) ([]*domain.MeetupDetails, error)
	Accept(ctx context.Context, cred api.Credential, id string) (*domain.Meetup, error)
	Decline(ctx context.Context, cred api.Credential, id, reason string) (*domain.Meetup, error)
	Cancel(ctx context.Context, cred api.Credential, id, reason string) (*domain.Meetup, error)
	Complete(ctx context.Context, cred api.Credential, id string) (*domain.Meetup, error)
}

type Board struct {
	backend Backend
	cred    api.Credential
	selfID  string
	logger  *slog.Logger

	mu        sync.RWMutex
	meetups   []*domain.MeetupDetails
	lastError string
}

func New(backend Backend, cred api.Credential, selfID string, logger *slog.Logger) *Board {
	return &Board{backend: backend, cred: cred, selfID: selfID, logger: logger}
}

// Refresh replaces the list with the server's current view.
func (b *Board) Refresh(ctx context.Context) error {
	list, err := b.backend.MyMeetups(ctx, b.cred)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.lastError = api.UserMessage(err)
		return fmt.Errorf("refresh meetups: %w", err)
	}
	b.meetups = list
	return nil
}

// Meetups returns the list as of the last refresh, in server order.
func (b *Board) Meetups() []*domain.MeetupDetails {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*domain.MeetupDetails(nil), b.meetups...)
}

// Filter returns the meetups currently in any of the given statuses.
func (b *Board) Filter(statuses ...domain.MeetupStatus) []*domain.MeetupDetails {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*domain.MeetupDetails
	for _, m := range b.meetups {
		for _, s := range statuses {
			if m.Status == s {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func (b *Board) find(id string) *domain.MeetupDetails {
	for _, m := range b.meetups {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Role returns the acting user's role on the meetup, RoleNone if it is not listed.
func (b *Board) Role(meetupID string) domain.Role {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := b.find(meetupID)
	if m == nil {
		return domain.RoleNone
	}
	return domain.RoleOf(&m.Meetup, b.selfID)
}

// Actions lists what the acting user may do to the meetup right now.
func (b *Board) Actions(meetupID string) []domain.Action {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := b.find(meetupID)
	if m == nil {
		return nil
	}
	return domain.AvailableActions(m.Status, domain.RoleOf(&m.Meetup, b.selfID))
}

// LastError is the message of the most recent failure, suitable for display.
func (b *Board) LastError() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

func (b *Board) Accept(ctx context.Context, meetupID string) error {
	return b.act(ctx, domain.ActionAccept, meetupID, func() error {
		_, err := b.backend.Accept(ctx, b.cred, meetupID)
		return err
	})
}

func (b *Board) Decline(ctx context.Context, meetupID, reason string) error {
	return b.act(ctx, domain.ActionDecline, meetupID, func() error {
		_, err := b.backend.Decline(ctx, b.cred, meetupID, reason)
		return err
	})
}

// Cancel cancels the meetup; the server turns a buyer's cancel of a pending meetup into a decline.
func (b *Board) Cancel(ctx context.Context, meetupID, reason string) error {
	return b.act(ctx, domain.ActionCancel, meetupID, func() error {
		_, err := b.backend.Cancel(ctx, b.cred, meetupID, reason)
		return err
	})
}

func (b *Board) Complete(ctx context.Context, meetupID string) error {
	return b.act(ctx, domain.ActionComplete, meetupID, func() error {
		_, err := b.backend.Complete(ctx, b.cred, meetupID)
		return err
	})
}

// act runs one transition and then refreshes, whatever the outcome: a rejected transition
// usually means the list is stale.
func (b *Board) act(ctx context.Context, action domain.Action, meetupID string, call func() error) error {
	actErr := call()
	if actErr != nil {
		b.logger.Warn("meetup action rejected", "action", string(action), "meetup_id", meetupID, "error", actErr)
		actErr = fmt.Errorf("%s meetup: %w", action, actErr)
	}
	refreshErr := b.Refresh(ctx)

	b.mu.Lock()
	switch {
	case actErr != nil:
		b.lastError = api.UserMessage(actErr)
	case refreshErr == nil:
		b.lastError = ""
	}
	b.mu.Unlock()
	return errors.Join(actErr, refreshErr)
}
