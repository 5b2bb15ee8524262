package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"acadswap/internal/domain"
)

const meetupColumns = `m.id, m.item_id, m.seller_id, m.buyer_id, m.title, m.scheduled_date, m.scheduled_time,
		m.location_name, m.location_lat, m.location_lng, m.notes, m.status, m.cancellation_reason,
		m.created_at, m.updated_at, m.cancelled_at, m.completed_at`

type meetupRepository struct {
	DB DBTX
}

func NewMeetupRepository(db DBTX) domain.MeetupRepository {
	return &meetupRepository{DB: db}
}

// meetupRow holds the scan targets for one meetups row.
type meetupRow struct {
	m           domain.Meetup
	date        time.Time
	reason      sql.NullString
	cancelledAt sql.NullTime
	completedAt sql.NullTime
}

func (r *meetupRow) dest() []any {
	return []any{
		&r.m.ID, &r.m.ItemID, &r.m.SellerID, &r.m.BuyerID, &r.m.Title, &r.date, &r.m.ScheduledTime,
		&r.m.Location.Name, &r.m.Location.Lat, &r.m.Location.Lng, &r.m.Notes, &r.m.Status, &r.reason,
		&r.m.CreatedAt, &r.m.UpdatedAt, &r.cancelledAt, &r.completedAt,
	}
}

func (r *meetupRow) meetup() domain.Meetup {
	m := r.m
	m.ScheduledDate = r.date.Format(domain.DateLayout)
	if r.reason.Valid {
		m.CancellationReason = &r.reason.String
	}
	if r.cancelledAt.Valid {
		m.CancelledAt = &r.cancelledAt.Time
	}
	if r.completedAt.Valid {
		m.CompletedAt = &r.completedAt.Time
	}
	return m
}

func (r *meetupRepository) Create(ctx context.Context, m *domain.Meetup) error {
	query := `
		INSERT INTO meetups (item_id, seller_id, buyer_id, title, scheduled_date, scheduled_time,
			location_name, location_lat, location_lng, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		m.ItemID, m.SellerID, m.BuyerID, m.Title, m.ScheduledDate, m.ScheduledTime,
		m.Location.Name, m.Location.Lat, m.Location.Lng, m.Notes, string(m.Status), m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *meetupRepository) GetByID(ctx context.Context, id string) (*domain.Meetup, error) {
	query := `SELECT ` + meetupColumns + ` FROM meetups m WHERE m.id = $1`
	var row meetupRow
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(row.dest()...); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m := row.meetup()
	return &m, nil
}

func (r *meetupRepository) ListByParty(ctx context.Context, userID string) ([]*domain.MeetupDetails, error) {
	query := `
		SELECT ` + meetupColumns + `,
			COALESCE(s.first_name, $2), COALESCE(s.last_name, $3), COALESCE(s.email, ''),
			COALESCE(b.first_name, $2), COALESCE(b.last_name, $3), COALESCE(b.email, ''),
			COALESCE(i.title, $4), COALESCE(i.price, 0), COALESCE(i.images, '{}')
		FROM meetups m
		LEFT JOIN users s ON s.id = m.seller_id
		LEFT JOIN users b ON b.id = m.buyer_id
		LEFT JOIN items i ON i.id = m.item_id
		WHERE m.seller_id = $1 OR m.buyer_id = $1
		ORDER BY m.scheduled_date ASC, m.scheduled_time ASC, m.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, domain.UnknownFirstName, domain.UnknownLastName, domain.UnknownItemTitle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.MeetupDetails, 0)
	for rows.Next() {
		var row meetupRow
		d := &domain.MeetupDetails{}
		dest := append(row.dest(),
			&d.Seller.FirstName, &d.Seller.LastName, &d.Seller.Email,
			&d.Buyer.FirstName, &d.Buyer.LastName, &d.Buyer.Email,
			&d.Item.Title, &d.Item.Price, pq.Array(&d.Item.Images),
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.Meetup = row.meetup()
		d.Seller.ID = d.SellerID
		d.Buyer.ID = d.BuyerID
		d.Item.ID = d.ItemID
		if d.Item.Images == nil {
			d.Item.Images = []string{}
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// mismatch explains why a guarded update touched no rows.
func (r *meetupRepository) mismatch(ctx context.Context, id string, expected domain.MeetupStatus) error {
	var current domain.MeetupStatus
	err := r.DB.QueryRowContext(ctx, `SELECT status FROM meetups WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if notFound(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: meetup %s is %s, expected %s", domain.ErrInvalidTransition, id, current, expected)
}

func (r *meetupRepository) UpdateStatus(ctx context.Context, c domain.StatusChange, at time.Time) error {
	var reason, cancelledAt, completedAt any
	switch {
	case c.To.IsCancelled():
		reason, cancelledAt = c.Reason, at
	case c.To == domain.StatusCompleted:
		completedAt = at
	}
	query := `
		UPDATE meetups
		SET status = $1,
			cancellation_reason = COALESCE($2, cancellation_reason),
			updated_at = $3,
			cancelled_at = COALESCE($4, cancelled_at),
			completed_at = COALESCE($5, completed_at)
		WHERE id = $6 AND status = $7
	`
	res, err := r.DB.ExecContext(ctx, query, string(c.To), reason, at, cancelledAt, completedAt, c.MeetupID, string(c.From))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.mismatch(ctx, c.MeetupID, c.From)
	}
	return nil
}

func (r *meetupRepository) UpdateSchedule(ctx context.Context, id string, expected domain.MeetupStatus, s domain.Schedule, at time.Time) error {
	query := `
		UPDATE meetups
		SET scheduled_date = $1, scheduled_time = $2, location_name = $3, location_lat = $4,
			location_lng = $5, notes = $6, updated_at = $7
		WHERE id = $8 AND status = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		s.ScheduledDate, s.ScheduledTime, s.Location.Name, s.Location.Lat, s.Location.Lng, s.Notes, at, id, string(expected))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.mismatch(ctx, id, expected)
	}
	return nil
}
