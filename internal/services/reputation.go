package services

import (
	"context"
	"fmt"

	"acadswap/internal/domain"
)

type reputationAwarder struct {
	reward           int
	penaltiesEnabled bool
}

// NewReputationAwarder returns a ReputationAwarder crediting reward to both parties on
// completion. When penalties is false, Penalize records nothing.
func NewReputationAwarder(reward int, penalties bool) domain.ReputationAwarder {
	if reward <= 0 {
		reward = domain.DefaultCompletionReward
	}
	return &reputationAwarder{reward: reward, penaltiesEnabled: penalties}
}

func (a *reputationAwarder) Award(ctx context.Context, ledger domain.ReputationLedger, m *domain.Meetup) error {
	changes := []domain.ReputationChange{
		{UserID: m.SellerID, MeetupID: m.ID, Amount: a.reward, Reason: domain.ReasonCompletedAsSeller},
		{UserID: m.BuyerID, MeetupID: m.ID, Amount: a.reward, Reason: domain.ReasonCompletedAsBuyer},
	}
	for _, c := range changes {
		if err := ledger.Apply(ctx, c); err != nil {
			return fmt.Errorf("award reputation to %s: %w", c.UserID, err)
		}
	}
	return nil
}

func (a *reputationAwarder) Penalize(ctx context.Context, ledger domain.ReputationLedger, m *domain.Meetup, by domain.Role) error {
	if !a.penaltiesEnabled {
		return nil
	}
	var c domain.ReputationChange
	switch by {
	case domain.RoleSeller:
		c = domain.ReputationChange{UserID: m.SellerID, MeetupID: m.ID, Amount: domain.SellerCancellationPenalty, Reason: domain.ReasonCancelledBySeller}
	case domain.RoleBuyer:
		c = domain.ReputationChange{UserID: m.BuyerID, MeetupID: m.ID, Amount: domain.BuyerCancellationPenalty, Reason: domain.ReasonCancelledByBuyer}
	default:
		return fmt.Errorf("penalize: %w: role %q", domain.ErrInvalidInput, by)
	}
	if err := ledger.Apply(ctx, c); err != nil {
		return fmt.Errorf("apply cancellation penalty to %s: %w", c.UserID, err)
	}
	return nil
}
