package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"acadswap/internal/domain"
)

const (
	minPartyQueryLen = 2
	partySearchLimit = 10
)

type meetupService struct {
	meetups        domain.MeetupRepository
	users          domain.UserRepository
	items          domain.ItemRepository
	uow            domain.UnitOfWork
	awarder        domain.ReputationAwarder
	logger         *slog.Logger
	tracer         trace.Tracer
	contextTimeout time.Duration
	now            func() time.Time
}

// NewMeetupService creates a MeetupService. Status changes and their reputation side effects
// run in one unit of work.
func NewMeetupService(
	meetups domain.MeetupRepository,
	users domain.UserRepository,
	items domain.ItemRepository,
	uow domain.UnitOfWork,
	awarder domain.ReputationAwarder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.MeetupService {
	return &meetupService{
		meetups:        meetups,
		users:          users,
		items:          items,
		uow:            uow,
		awarder:        awarder,
		logger:         logger,
		tracer:         otel.Tracer("acadswap/services"),
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *meetupService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *meetupService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "meetup."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *meetupService) Create(ctx context.Context, sellerID string, draft domain.MeetupDraft) (m *domain.Meetup, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := s.startSpan(ctx, "create", attribute.String("meetup.seller_id", sellerID))
	defer func() { endSpan(span, err) }()

	now := s.now()
	if problems := draft.Problems(now); len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	itemID := strings.TrimSpace(draft.ItemID)
	buyerID := strings.TrimSpace(draft.BuyerID)
	if buyerID == sellerID {
		return nil, domain.NewValidationError("buyer must be a different user than the seller")
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item.SellerID != sellerID {
		return nil, domain.NewValidationError("item does not belong to you")
	}
	if !item.IsActive() {
		return nil, domain.NewValidationError("item is not active")
	}

	if _, err := s.users.GetByID(ctx, buyerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("buyer %s: %w", buyerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get buyer: %w", err)
	}

	m = domain.NewMeetup(sellerID, draft, now)
	if err := s.meetups.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create meetup: %w", err)
	}
	s.logger.InfoContext(ctx, "meetup created", "meetup_id", m.ID, "item_id", m.ItemID, "seller_id", sellerID, "buyer_id", buyerID)
	return m, nil
}

func (s *meetupService) ListMine(ctx context.Context, userID string) ([]*domain.MeetupDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.meetups.ListByParty(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list meetups: %w", err)
	}
	if list == nil {
		list = []*domain.MeetupDetails{}
	}
	return list, nil
}

func (s *meetupService) load(ctx context.Context, meetupID string) (*domain.Meetup, error) {
	m, err := s.meetups.GetByID(ctx, meetupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("meetup %s: %w", meetupID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get meetup: %w", err)
	}
	return m, nil
}

func (s *meetupService) Get(ctx context.Context, actorID, meetupID string) (*domain.Meetup, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	m, err := s.load(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if domain.RoleOf(m, actorID) == domain.RoleNone {
		return nil, fmt.Errorf("%w: user is not a party to meetup %s", domain.ErrUnauthorized, meetupID)
	}
	return m, nil
}

func (s *meetupService) Accept(ctx context.Context, actorID, meetupID string) (*domain.Meetup, error) {
	return s.transition(ctx, actorID, meetupID, "", fixedAction(domain.ActionAccept))
}

func (s *meetupService) Decline(ctx context.Context, actorID, meetupID, reason string) (*domain.Meetup, error) {
	return s.transition(ctx, actorID, meetupID, reason, fixedAction(domain.ActionDecline))
}

func (s *meetupService) Cancel(ctx context.Context, actorID, meetupID, reason string) (*domain.Meetup, error) {
	return s.transition(ctx, actorID, meetupID, reason, func(m *domain.Meetup) domain.Action {
		return domain.ResolveCancel(m.Status, domain.RoleOf(m, actorID))
	})
}

func (s *meetupService) Complete(ctx context.Context, actorID, meetupID string) (*domain.Meetup, error) {
	return s.transition(ctx, actorID, meetupID, "", fixedAction(domain.ActionComplete))
}

func fixedAction(a domain.Action) func(*domain.Meetup) domain.Action {
	return func(*domain.Meetup) domain.Action { return a }
}

// transition plans the change against the current record, then persists the status change
// and its reputation side effect atomically. The stored status must still match the planned
// starting state; a concurrent change yields ErrInvalidTransition.
func (s *meetupService) transition(ctx context.Context, actorID, meetupID, reason string, actionFor func(*domain.Meetup) domain.Action) (m *domain.Meetup, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := s.startSpan(ctx, "transition", attribute.String("meetup.id", meetupID))
	defer func() { endSpan(span, err) }()

	m, err = s.load(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	action := actionFor(m)
	span.SetAttributes(attribute.String("meetup.action", string(action)))

	change, err := domain.PlanTransition(m, actorID, action, reason)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := *m
	updated.Apply(change, now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx domain.TxRepositories) error {
		if err := tx.Meetups().UpdateStatus(ctx, change, now); err != nil {
			return err
		}
		switch {
		case change.To == domain.StatusCompleted:
			return s.awarder.Award(ctx, tx.Reputation(), &updated)
		case change.To.IsCancelled():
			return s.awarder.Penalize(ctx, tx.Reputation(), &updated, change.Actor)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "meetup transition failed",
			"meetup_id", meetupID, "action", action, "from", change.From, "to", change.To, "err", err)
		return nil, fmt.Errorf("%s meetup: %w", action, err)
	}

	s.logger.InfoContext(ctx, "meetup transitioned",
		"meetup_id", meetupID, "action", action, "actor", change.Actor, "from", change.From, "to", change.To)
	return &updated, nil
}

func (s *meetupService) Reschedule(ctx context.Context, actorID, meetupID string, draft domain.ScheduleDraft) (m *domain.Meetup, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := s.startSpan(ctx, "reschedule", attribute.String("meetup.id", meetupID))
	defer func() { endSpan(span, err) }()

	m, err = s.load(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if domain.RoleOf(m, actorID) != domain.RoleSeller {
		return nil, fmt.Errorf("%w: only the seller can reschedule meetup %s", domain.ErrUnauthorized, meetupID)
	}
	if m.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: cannot reschedule a %s meetup", domain.ErrInvalidTransition, m.Status)
	}
	now := s.now()
	if problems := draft.Problems(now); len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	sched := draft.Schedule()
	if err := s.meetups.UpdateSchedule(ctx, meetupID, domain.StatusPending, sched, now); err != nil {
		return nil, fmt.Errorf("reschedule meetup: %w", err)
	}
	m.ScheduledDate = sched.ScheduledDate
	m.ScheduledTime = sched.ScheduledTime
	m.Location = sched.Location
	m.Notes = sched.Notes
	m.UpdatedAt = now
	return m, nil
}

func (s *meetupService) SearchParties(ctx context.Context, actorID, query string) ([]*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query = strings.TrimSpace(query)
	if len([]rune(query)) < minPartyQueryLen {
		return nil, domain.NewValidationError(fmt.Sprintf("query must be at least %d characters", minPartyQueryLen))
	}
	users, err := s.users.Search(ctx, query, actorID, partySearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
