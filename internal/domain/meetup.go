package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Wire layouts for the appointment date and wall-clock time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// MeetupStatus is the lifecycle state of a meetup.
type MeetupStatus string

const (
	StatusPending           MeetupStatus = "pending"
	StatusConfirmed         MeetupStatus = "confirmed"
	StatusCompleted         MeetupStatus = "completed"
	StatusCancelledBySeller MeetupStatus = "cancelled_by_seller"
	StatusCancelledByBuyer  MeetupStatus = "cancelled_by_buyer"
)

// IsTerminal reports whether no further transitions are legal from s.
func (s MeetupStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledBySeller, StatusCancelledByBuyer:
		return true
	}
	return false
}

// IsCancelled reports whether s is one of the two cancelled variants.
func (s MeetupStatus) IsCancelled() bool {
	return s == StatusCancelledBySeller || s == StatusCancelledByBuyer
}

// Valid reports whether s is a known status.
func (s MeetupStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelledBySeller, StatusCancelledByBuyer:
		return true
	}
	return false
}

// Location is a human label plus coordinates. Both coordinates are present whenever Name is.
// swagger:model Location
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Meetup is one proposed, ongoing or closed exchange between a seller and a buyer.
// Status and CancellationReason are written only through Apply.
// swagger:model Meetup
type Meetup struct {
	ID                 string       `json:"id"`
	ItemID             string       `json:"itemId"`
	SellerID           string       `json:"sellerId"`
	BuyerID            string       `json:"buyerId"`
	Title              string       `json:"title"`
	ScheduledDate      string       `json:"scheduledDate"`
	ScheduledTime      string       `json:"scheduledTime"`
	Location           Location     `json:"location"`
	Notes              string       `json:"notes,omitempty"`
	Status             MeetupStatus `json:"status"`
	CancellationReason *string      `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	CancelledAt        *time.Time   `json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time   `json:"completedAt,omitempty"`
}

// NewMeetup returns a pending Meetup built from a validated draft. ID is typically set by the repository on create.
func NewMeetup(sellerID string, d MeetupDraft, createdAt time.Time) *Meetup {
	return &Meetup{
		ItemID:        strings.TrimSpace(d.ItemID),
		SellerID:      sellerID,
		BuyerID:       strings.TrimSpace(d.BuyerID),
		Title:         strings.TrimSpace(d.Title),
		ScheduledDate: strings.TrimSpace(d.ScheduledDate),
		ScheduledTime: normalizeClock(d.ScheduledTime),
		Location:      d.location(),
		Notes:         strings.TrimSpace(d.Notes),
		Status:        StatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// Apply records a planned status change on the meetup.
func (m *Meetup) Apply(c StatusChange, at time.Time) {
	m.Status = c.To
	m.UpdatedAt = at
	switch {
	case c.To.IsCancelled():
		reason := c.Reason
		m.CancellationReason = &reason
		m.CancelledAt = &at
	case c.To == StatusCompleted:
		m.CompletedAt = &at
	}
}

// Schedule is the reschedulable part of a meetup.
type Schedule struct {
	ScheduledDate string
	ScheduledTime string
	Location      Location
	Notes         string
}

// PartySummary is the denormalized view of a seller or buyer on a meetup listing.
type PartySummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ItemSummary is the denormalized view of the referenced item.
type ItemSummary struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

// Fallbacks used when a referenced user or item can no longer be resolved.
const (
	UnknownFirstName = "Unknown"
	UnknownLastName  = "User"
	UnknownItemTitle = "Unknown Item"
)

// MeetupDetails is a meetup denormalized with party and item fields at read time.
// swagger:model MeetupDetails
type MeetupDetails struct {
	Meetup
	Seller PartySummary `json:"seller"`
	Buyer  PartySummary `json:"buyer"`
	Item   ItemSummary  `json:"item"`
}

// DisplayTitle returns the meetup title, falling back to the item title.
func (d *MeetupDetails) DisplayTitle() string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return d.Item.Title
}

// MeetupDraft is a creation request for a meetup, as sent on the wire.
type MeetupDraft struct {
	ItemID        string   `json:"itemId"`
	BuyerID       string   `json:"buyerId"`
	Title         string   `json:"title"`
	ScheduledDate string   `json:"scheduledDate"`
	ScheduledTime string   `json:"scheduledTime"`
	LocationName  string   `json:"locationName"`
	LocationLat   *float64 `json:"locationLat"`
	LocationLng   *float64 `json:"locationLng"`
	Notes         string   `json:"notes"`
}

func (d MeetupDraft) location() Location {
	loc := Location{Name: strings.TrimSpace(d.LocationName)}
	if d.LocationLat != nil {
		loc.Lat = *d.LocationLat
	}
	if d.LocationLng != nil {
		loc.Lng = *d.LocationLng
	}
	return loc
}

// Problems returns every validation problem in the draft. today is the current date in the
// caller's time zone; a scheduled date before it is rejected.
func (d MeetupDraft) Problems(today time.Time) []string {
	var errs []string
	if strings.TrimSpace(d.ItemID) == "" {
		errs = append(errs, "itemId is required")
	}
	if strings.TrimSpace(d.BuyerID) == "" {
		errs = append(errs, "buyerId is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "title is required")
	}
	errs = append(errs, scheduleProblems(d.ScheduledDate, d.ScheduledTime, today)...)
	errs = append(errs, locationProblems(d.LocationName, d.LocationLat, d.LocationLng)...)
	return errs
}

// ScheduleDraft is a reschedule request.
type ScheduleDraft struct {
	ScheduledDate string   `json:"scheduledDate"`
	ScheduledTime string   `json:"scheduledTime"`
	LocationName  string   `json:"locationName"`
	LocationLat   *float64 `json:"locationLat"`
	LocationLng   *float64 `json:"locationLng"`
	Notes         string   `json:"notes"`
}

// Problems returns every validation problem in the reschedule request.
func (d ScheduleDraft) Problems(today time.Time) []string {
	errs := scheduleProblems(d.ScheduledDate, d.ScheduledTime, today)
	return append(errs, locationProblems(d.LocationName, d.LocationLat, d.LocationLng)...)
}

// Schedule converts a validated draft.
func (d ScheduleDraft) Schedule() Schedule {
	md := MeetupDraft{LocationName: d.LocationName, LocationLat: d.LocationLat, LocationLng: d.LocationLng}
	return Schedule{
		ScheduledDate: strings.TrimSpace(d.ScheduledDate),
		ScheduledTime: normalizeClock(d.ScheduledTime),
		Location:      md.location(),
		Notes:         strings.TrimSpace(d.Notes),
	}
}

// normalizeClock zero-pads a valid time so stored values sort as text ("9:00" becomes "09:00").
func normalizeClock(clock string) string {
	clock = strings.TrimSpace(clock)
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(TimeLayout)
}

func scheduleProblems(date, clock string, today time.Time) []string {
	var errs []string
	date = strings.TrimSpace(date)
	if date == "" {
		errs = append(errs, "scheduledDate is required")
	} else if day, err := time.Parse(DateLayout, date); err != nil {
		errs = append(errs, "scheduledDate must be YYYY-MM-DD")
	} else {
		y, m, dd := today.Date()
		if day.Before(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)) {
			errs = append(errs, "scheduledDate cannot be in the past")
		}
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		errs = append(errs, "scheduledTime is required")
	} else if _, err := time.Parse(TimeLayout, clock); err != nil {
		errs = append(errs, "scheduledTime must be HH:MM")
	}
	return errs
}

func locationProblems(name string, lat, lng *float64) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "locationName is required")
	}
	if lat == nil || lng == nil {
		errs = append(errs, "location coordinates are required")
		return errs
	}
	if *lat < -90 || *lat > 90 {
		errs = append(errs, fmt.Sprintf("locationLat %v out of range", *lat))
	}
	if *lng < -180 || *lng > 180 {
		errs = append(errs, fmt.Sprintf("locationLng %v out of range", *lng))
	}
	return errs
}

// CancellationReasons is the list offered to users when cancelling. Any non-empty text is accepted.
var CancellationReasons = []string{
	"Schedule conflict",
	"Item no longer available",
	"Found better deal",
	"Changed mind",
	"Safety concerns",
	"Other",
}

// MeetupRepository defines the interface for meetup storage.
type MeetupRepository interface {
	Create(ctx context.Context, m *Meetup) error
	GetByID(ctx context.Context, id string) (*Meetup, error)
	// ListByParty returns meetups where userID is seller or buyer, ordered by scheduled date and time.
	ListByParty(ctx context.Context, userID string) ([]*MeetupDetails, error)
	// UpdateStatus applies c only if the stored status still equals c.From; otherwise it
	// returns ErrInvalidTransition (or ErrNotFound when the meetup is gone).
	UpdateStatus(ctx context.Context, c StatusChange, at time.Time) error
	// UpdateSchedule replaces the schedule of a meetup whose stored status equals expected.
	UpdateSchedule(ctx context.Context, id string, expected MeetupStatus, s Schedule, at time.Time) error
}

// TxRepositories are the repositories bound to one transaction.
type TxRepositories interface {
	Meetups() MeetupRepository
	Reputation() ReputationLedger
}

// UnitOfWork runs fn inside a single transaction, committing when fn returns nil.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepositories) error) error
}

// MeetupService defines the meetup coordination operations.
type MeetupService interface {
	Create(ctx context.Context, sellerID string, draft MeetupDraft) (*Meetup, error)
	ListMine(ctx context.Context, userID string) ([]*MeetupDetails, error)
	Get(ctx context.Context, actorID, meetupID string) (*Meetup, error)
	Accept(ctx context.Context, actorID, meetupID string) (*Meetup, error)
	Decline(ctx context.Context, actorID, meetupID, reason string) (*Meetup, error)
	// Cancel covers decline-by-buyer while pending and cancel-by-either-party; the resulting
	// status is chosen by the actor's role.
	Cancel(ctx context.Context, actorID, meetupID, reason string) (*Meetup, error)
	Complete(ctx context.Context, actorID, meetupID string) (*Meetup, error)
	Reschedule(ctx context.Context, actorID, meetupID string, draft ScheduleDraft) (*Meetup, error)
	SearchParties(ctx context.Context, actorID, query string) ([]*User, error)
}
