package postgres

import (
	"context"
	"database/sql"
	"strings"

	"acadswap/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type userRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var picture sql.NullString
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &picture, &u.ReputationScore, &u.CreatedAt); err != nil {
		return nil, err
	}
	if picture.Valid {
		u.ProfilePicture = &picture.String
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, profile_picture, reputation_score, created_at
		FROM users
		WHERE id = $1
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]*domain.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	q := `
		SELECT id, first_name, last_name, email, profile_picture, reputation_score, created_at
		FROM users
		WHERE ($1 = '' OR id::text <> $1)
			AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY first_name, last_name
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, q, excludeID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
