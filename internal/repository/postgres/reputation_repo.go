package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"acadswap/internal/domain"
)

type reputationLedger struct {
	DB DBTX
}

// NewReputationLedger returns a ledger writing history rows and scores through db.
// Run it inside a transaction so both writes land together.
func NewReputationLedger(db DBTX) domain.ReputationLedger {
	return &reputationLedger{DB: db}
}

func (r *reputationLedger) Apply(ctx context.Context, c domain.ReputationChange) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reputation_history (user_id, meetup_id, amount, reason)
		VALUES ($1, $2, $3, $4)
	`, c.UserID, c.MeetupID, c.Amount, c.Reason)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) {
			switch perr.Code {
			case "23505":
				return fmt.Errorf("reputation for meetup %s user %s %q: %w", c.MeetupID, c.UserID, c.Reason, domain.ErrDuplicate)
			case "23503":
				return fmt.Errorf("user %s: %w", c.UserID, domain.ErrNotFound)
			}
		}
		return err
	}

	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET reputation_score = GREATEST(0, reputation_score + $1) WHERE id = $2`,
		c.Amount, c.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", c.UserID, domain.ErrNotFound)
	}
	return nil
}
