// Package api is a typed client for the meetup REST surface. Every call takes the caller's
// Credential explicitly; the client keeps no session state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"acadswap/internal/domain"
)

// Credential is a bearer token identifying the acting user.
type Credential string

var (
	// ErrMissingCredential is returned before any request is made when a call needs a token and has none.
	ErrMissingCredential = errors.New("api: missing credential")
	// ErrRateLimited matches 429 responses.
	ErrRateLimited = errors.New("rate limited")
)

// Error is a non-success response from the server. Message is safe to show to users.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the server's error code back onto the domain sentinels.
func (e *Error) Unwrap() error {
	switch e.Code {
	case domain.CodeUnauthenticated, domain.CodeUnauthorized:
		return domain.ErrUnauthorized
	case domain.CodeInvalidTransition:
		return domain.ErrInvalidTransition
	case domain.CodeValidation, domain.CodeBadRequest:
		return domain.ErrInvalidInput
	case domain.CodeNotFound:
		return domain.ErrNotFound
	case domain.CodeConflict:
		return domain.ErrDuplicate
	case domain.CodeUpstreamUnavailable:
		return domain.ErrUpstreamUnavailable
	case domain.CodeRateLimited:
		return ErrRateLimited
	}
	return nil
}

// UserMessage returns the text to show for err: the server's message for API errors,
// the error text otherwise.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// Client calls the meetup API at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, cred Credential, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred != "" {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Code: env.Code, Message: msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) authed(ctx context.Context, cred Credential, method, path string, body, out any) error {
	if cred == "" {
		return ErrMissingCredential
	}
	return c.do(ctx, cred, method, path, body, out)
}

func meetupPath(id, action string) string {
	p := "/api/meetup/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

type reasonBody struct {
	Reason string `json:"reason"`
}

// MyMeetups lists every meetup the caller is party to.
func (c *Client) MyMeetups(ctx context.Context, cred Credential) ([]*domain.MeetupDetails, error) {
	var out []*domain.MeetupDetails
	if err := c.authed(ctx, cred, http.MethodGet, "/api/meetup/my-meetups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, cred Credential, id string) (*domain.Meetup, error) {
	var out domain.Meetup
	if err := c.authed(ctx, cred, http.MethodGet, meetupPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMeetup proposes a meetup; the caller becomes the seller.
func (c *Client) CreateMeetup(ctx context.Context, cred Credential, draft domain.MeetupDraft) (*domain.Meetup, error) {
	var out domain.Meetup
	if err := c.authed(ctx, cred, http.MethodPost, "/api/meetup/create", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Accept(ctx context.Context, cred Credential, id string) (*domain.Meetup, error) {
	return c.transition(ctx, cred, http.MethodPut, id, "accept", nil)
}

func (c *Client) Decline(ctx context.Context, cred Credential, id, reason string) (*domain.Meetup, error) {
	return c.transition(ctx, cred, http.MethodPut, id, "decline", reasonBody{Reason: reason})
}

// Cancel cancels the meetup. A buyer cancelling a pending meetup declines it.
func (c *Client) Cancel(ctx context.Context, cred Credential, id, reason string) (*domain.Meetup, error) {
	return c.transition(ctx, cred, http.MethodDelete, id, "cancel", reasonBody{Reason: reason})
}

func (c *Client) Complete(ctx context.Context, cred Credential, id string) (*domain.Meetup, error) {
	return c.transition(ctx, cred, http.MethodPut, id, "complete", nil)
}

func (c *Client) Reschedule(ctx context.Context, cred Credential, id string, draft domain.ScheduleDraft) (*domain.Meetup, error) {
	return c.transition(ctx, cred, http.MethodPut, id, "reschedule", draft)
}

func (c *Client) transition(ctx context.Context, cred Credential, method, id, action string, body any) (*domain.Meetup, error) {
	var out domain.Meetup
	if err := c.authed(ctx, cred, method, meetupPath(id, action), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers finds counterparties by name or email. The caller is never included.
func (c *Client) SearchUsers(ctx context.Context, cred Credential, query string) ([]*domain.User, error) {
	var out []*domain.User
	path := "/api/meetup/search-users?" + url.Values{"q": {query}}.Encode()
	if err := c.authed(ctx, cred, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchPlaces geocodes query through the server.
func (c *Client) SearchPlaces(ctx context.Context, cred Credential, query string) ([]domain.PlaceCandidate, error) {
	var out []domain.PlaceCandidate
	path := "/api/meetup/search-places?" + url.Values{"q": {query}}.Encode()
	if err := c.authed(ctx, cred, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyItems lists the caller's items; activeOnly keeps those usable for a new meetup.
func (c *Client) MyItems(ctx context.Context, cred Credential, activeOnly bool) ([]*domain.Item, error) {
	var out []*domain.Item
	path := "/items/user/me"
	if activeOnly {
		path += "?status=" + string(domain.ItemStatusActive)
	}
	if err := c.authed(ctx, cred, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancellationReasons returns the suggested reasons. No credential is needed.
func (c *Client) CancellationReasons(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, "", http.MethodGet, "/api/meetup/cancellation-reasons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Places adapts the client into a domain.Geocoder bound to cred.
func (c *Client) Places(cred Credential) domain.Geocoder {
	return placeSearch{client: c, cred: cred}
}

type placeSearch struct {
	client *Client
	cred   Credential
}

func (p placeSearch) Search(ctx context.Context, query string) ([]domain.PlaceCandidate, error) {
	return p.client.SearchPlaces(ctx, p.cred, query)
}
