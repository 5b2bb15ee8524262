package domain

import "context"

// Reputation amounts applied on meetup outcomes.
const (
	DefaultCompletionReward   = 5
	SellerCancellationPenalty = -3
	BuyerCancellationPenalty  = -1
)

// Ledger reasons. Together with the meetup and user they identify a reputation change.
const (
	ReasonCompletedAsSeller = "Transaction completed as seller"
	ReasonCompletedAsBuyer  = "Transaction completed as buyer"
	ReasonCancelledBySeller = "Meetup cancelled by seller"
	ReasonCancelledByBuyer  = "Meetup cancelled by buyer"
)

// ReputationChange is one entry in a user's reputation history.
type ReputationChange struct {
	UserID   string `json:"userId"`
	MeetupID string `json:"meetupId"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// ReputationLedger records a reputation change and applies it to the user's score
// (floored at zero). Recording the same (meetup, user, reason) twice is an error.
type ReputationLedger interface {
	Apply(ctx context.Context, c ReputationChange) error
}

// ReputationAwarder computes and records reputation side effects of meetup outcomes.
// It is the only writer of users' reputation scores.
type ReputationAwarder interface {
	// Award credits both parties of a meetup that has just completed.
	Award(ctx context.Context, ledger ReputationLedger, m *Meetup) error
	// Penalize debits the party who cancelled.
	Penalize(ctx context.Context, ledger ReputationLedger, m *Meetup, by Role) error
}
