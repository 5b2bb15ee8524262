package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"acadswap/internal/delivery/http/helpers"
	"acadswap/internal/delivery/http/middleware"
	"acadswap/internal/domain"
)

// minPlaceQueryLen is the shortest place query forwarded to the geocoder.
const minPlaceQueryLen = 3

// ReasonRequest is the body of decline and cancel requests.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// MeetupSuccessResponse is the success envelope for endpoints returning one meetup.
type MeetupSuccessResponse struct {
	Success bool           `json:"success"`
	Data    *domain.Meetup `json:"data"`
}

// MeetupListSuccessResponse is the success envelope for GET /api/meetup/my-meetups.
type MeetupListSuccessResponse struct {
	Success bool                    `json:"success"`
	Data    []*domain.MeetupDetails `json:"data"`
}

// UserListSuccessResponse is the success envelope for GET /api/meetup/search-users.
type UserListSuccessResponse struct {
	Success bool           `json:"success"`
	Data    []*domain.User `json:"data"`
}

// PlaceListSuccessResponse is the success envelope for GET /api/meetup/search-places.
type PlaceListSuccessResponse struct {
	Success bool                    `json:"success"`
	Data    []domain.PlaceCandidate `json:"data"`
}

type MeetupController struct {
	Logger   *slog.Logger
	Service  domain.MeetupService
	Geocoder domain.Geocoder
}

func NewMeetupController(logger *slog.Logger, svc domain.MeetupService, geocoder domain.Geocoder) *MeetupController {
	return &MeetupController{
		Logger:   logger,
		Service:  svc,
		Geocoder: geocoder,
	}
}

func actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthenticated, "unauthenticated")
	}
	return userID, ok
}

func meetupID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid meetup id")
		return "", false
	}
	return id, true
}

// decodeReason reads an optional {"reason": "..."} body. A missing reason is left for the
// service to reject, so state and authorization errors take precedence.
func decodeReason(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return "", true
	}
	var req ReasonRequest
	if err := helpers.DecodeStrict(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", true
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed request body: "+err.Error())
		return "", false
	}
	return req.Reason, true
}

// MyMeetups godoc
// @Summary List my meetups
// @Description Every meetup where the caller is seller or buyer, ordered by scheduled date and time, with party and item details.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeetupListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "code: unauthenticated"
// @Failure 500 {object} helpers.APIResponse "code: internal_error"
// @Router /api/meetup/my-meetups [get]
func (c *MeetupController) MyMeetups(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	list, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetMeetup godoc
// @Summary Get a meetup
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: bad_request"
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "code: not_found"
// @Router /api/meetup/{id} [get]
func (c *MeetupController) GetMeetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := meetupID(w, r)
	if !ok {
		return
	}
	m, err := c.Service.Get(r.Context(), userID, id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// CreateMeetup godoc
// @Summary Propose a meetup
// @Description The caller becomes the seller; the meetup starts pending.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meetup body domain.MeetupDraft true "Meetup proposal"
// @Success 201 {object} controllers.MeetupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: bad_request or validation_error"
// @Failure 404 {object} helpers.APIResponse "code: not_found"
// @Router /api/meetup/create [post]
func (c *MeetupController) CreateMeetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	var draft domain.MeetupDraft
	if !helpers.DecodeAndValidate(w, r, &draft) {
		return
	}
	m, err := c.Service.Create(r.Context(), userID, draft)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, m)
}

// Accept godoc
// @Summary Accept a pending meetup (buyer)
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "code: invalid_transition"
// @Router /api/meetup/{id}/accept [put]
func (c *MeetupController) Accept(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, false, func(userID, id, _ string) (*domain.Meetup, error) {
		return c.Service.Accept(r.Context(), userID, id)
	})
}

// Decline godoc
// @Summary Decline a pending meetup (buyer)
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Param body body controllers.ReasonRequest true "Cancellation reason"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: validation_error"
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "code: invalid_transition"
// @Router /api/meetup/{id}/decline [put]
func (c *MeetupController) Decline(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, true, func(userID, id, reason string) (*domain.Meetup, error) {
		return c.Service.Decline(r.Context(), userID, id, reason)
	})
}

// Cancel godoc
// @Summary Cancel a meetup
// @Description Seller may cancel while pending or confirmed; buyer may cancel once confirmed. A buyer cancelling a pending meetup declines it.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Param body body controllers.ReasonRequest true "Cancellation reason"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: validation_error"
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "code: invalid_transition"
// @Router /api/meetup/{id}/cancel [delete]
func (c *MeetupController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, true, func(userID, id, reason string) (*domain.Meetup, error) {
		return c.Service.Cancel(r.Context(), userID, id, reason)
	})
}

// Complete godoc
// @Summary Mark a confirmed meetup as completed (buyer)
// @Description Awards reputation to both parties.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "code: invalid_transition"
// @Router /api/meetup/{id}/complete [put]
func (c *MeetupController) Complete(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, false, func(userID, id, _ string) (*domain.Meetup, error) {
		return c.Service.Complete(r.Context(), userID, id)
	})
}

func (c *MeetupController) transition(w http.ResponseWriter, r *http.Request, withReason bool, do func(userID, id, reason string) (*domain.Meetup, error)) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := meetupID(w, r)
	if !ok {
		return
	}
	var reason string
	if withReason {
		if reason, ok = decodeReason(w, r); !ok {
			return
		}
	}
	m, err := do(userID, id, reason)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// Reschedule godoc
// @Summary Reschedule a pending meetup (seller)
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID (UUID)"
// @Param schedule body domain.ScheduleDraft true "New date, time and place"
// @Success 200 {object} controllers.MeetupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: validation_error"
// @Failure 403 {object} helpers.APIResponse "code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "code: invalid_transition"
// @Router /api/meetup/{id}/reschedule [put]
func (c *MeetupController) Reschedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := meetupID(w, r)
	if !ok {
		return
	}
	var draft domain.ScheduleDraft
	if !helpers.DecodeAndValidate(w, r, &draft) {
		return
	}
	m, err := c.Service.Reschedule(r.Context(), userID, id, draft)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// SearchUsers godoc
// @Summary Search counterparties
// @Description Case-insensitive match on first name, last name or email; excludes the caller; at most 10 results.
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param q query string true "Query (at least 2 characters)"
// @Success 200 {object} controllers.UserListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: validation_error"
// @Failure 429 {object} helpers.APIResponse "code: rate_limited"
// @Router /api/meetup/search-users [get]
func (c *MeetupController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(w, r)
	if !ok {
		return
	}
	users, err := c.Service.SearchParties(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// SearchPlaces godoc
// @Summary Geocode a place name
// @Tags meetups
// @Produce json
// @Security BearerAuth
// @Param q query string true "Query (at least 3 characters)"
// @Success 200 {object} controllers.PlaceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "code: validation_error"
// @Failure 429 {object} helpers.APIResponse "code: rate_limited"
// @Failure 502 {object} helpers.APIResponse "code: upstream_unavailable"
// @Router /api/meetup/search-places [get]
func (c *MeetupController) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < minPlaceQueryLen {
		helpers.WriteDomainError(w, r, c.Logger,
			domain.NewValidationError(fmt.Sprintf("query must be at least %d characters", minPlaceQueryLen)))
		return
	}
	places, err := c.Geocoder.Search(r.Context(), q)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, places)
}

// CancellationReasons godoc
// @Summary Suggested cancellation reasons
// @Description Presentation list only; any non-empty reason is accepted.
// @Tags meetups
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /api/meetup/cancellation-reasons [get]
func (c *MeetupController) CancellationReasons(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, domain.CancellationReasons)
}
