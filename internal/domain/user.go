package domain

import (
	"context"
	"time"
)

// User is the read-only projection of a marketplace user used by the meetup core.
// ReputationScore is written only by the ReputationAwarder.
// swagger:model User
type User struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	ProfilePicture  *string   `json:"profilePicture,omitempty"`
	ReputationScore int       `json:"reputationScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FullName returns "First Last", trimmed.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the read side of user storage used by the meetup core.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// Search matches query case-insensitively against first name, last name and email,
	// excluding excludeID, returning at most limit users in store order.
	Search(ctx context.Context, query, excludeID string, limit int) ([]*User, error)
}
