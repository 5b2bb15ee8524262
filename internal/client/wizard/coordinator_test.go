package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadswap/internal/adapters/auth"
	"acadswap/internal/client/api"
	"acadswap/internal/client/search"
	delivery "acadswap/internal/delivery/http"
	"acadswap/internal/delivery/http/controllers"
	"acadswap/internal/delivery/http/middleware"
	"acadswap/internal/domain"
	"acadswap/internal/repository/memory"
	"acadswap/internal/services"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const fastLookups = 10 * time.Millisecond

type staticPlaces struct{}

func (staticPlaces) Search(ctx context.Context, q string) ([]domain.PlaceCandidate, error) {
	return []domain.PlaceCandidate{{Lat: 14.6538, Lng: 121.0685, DisplayName: q + ", Quezon City"}}, nil
}

type env struct {
	store  *memory.Store
	client *api.Client
	cred   api.Credential
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	store.AddUser(&domain.User{ID: "U1", FirstName: "Sam", LastName: "Seller", Email: "sam@campus.edu"})
	store.AddUser(&domain.User{ID: "U2", FirstName: "Bo", LastName: "Buyer", Email: "bo@campus.edu"})
	store.AddItem(&domain.Item{ID: "I1", SellerID: "U1", Title: "Calculator", Price: 500, Status: domain.ItemStatusActive})
	store.AddItem(&domain.Item{ID: "I2", SellerID: "U1", Title: "Old notes", Status: domain.ItemStatusSold})

	jwtAuth := auth.NewJWTAuthority("wizard-test")
	svc := services.NewMeetupService(store.Meetups(), store.Users(), store.Items(), store,
		services.NewReputationAwarder(5, true), testLogger, time.Second)
	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:        testLogger,
		Verifier:      jwtAuth,
		Meetups:       controllers.NewMeetupController(testLogger, svc, staticPlaces{}),
		Items:         controllers.NewItemController(testLogger, services.NewItemService(store.Items())),
		SearchLimiter: middleware.NewRateLimiter(100, 100),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := jwtAuth.Issue("U1", "sam@campus.edu", time.Hour)
	require.NoError(t, err)
	return &env{store: store, client: api.NewClient(srv.URL, srv.Client()), cred: api.Credential(token)}
}

func tomorrow() string { return time.Now().AddDate(0, 0, 1).Format(domain.DateLayout) }

func TestCoordinator_EndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	w := New(e.client, e.cred, "U1", testLogger, WithLookupOptions(search.WithQuietPeriod(fastLookups)))
	defer w.Close()

	require.NoError(t, w.Load(ctx))
	items := w.Items()
	require.Len(t, items, 1, "sold items are not offered")
	assert.Equal(t, "I1", items[0].ID)

	assert.Error(t, w.Next(), "cannot leave the item stage without an item")
	assert.ErrorIs(t, w.SelectItem("I2"), domain.ErrInvalidInput)
	require.NoError(t, w.SelectItem("I1"))
	require.NoError(t, w.Next())
	assert.Equal(t, StageParty, w.Stage())

	w.SearchParty("b")
	w.SearchParty("bo")
	require.Eventually(t, func() bool { return len(w.PartyResults()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.SelectParty("U2"))
	require.NoError(t, w.Next())

	w.SetSchedule(tomorrow(), "14:00")
	w.SetNotes("Near the entrance")
	w.SearchPlace("Main Library")
	require.Eventually(t, func() bool { return len(w.PlaceResults()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.PickPlace(0))

	w.Back()
	assert.Equal(t, StageParty, w.Stage())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, StageSubmit, w.Stage())

	m, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, m.Status)
	assert.Equal(t, "U1", m.SellerID)
	assert.Equal(t, "U2", m.BuyerID)
	assert.Equal(t, "Calculator", m.Title)
	assert.Equal(t, "Main Library, Quezon City", m.Location.Name)
	assert.Equal(t, m, w.Created())

	mine, err := e.client.MyMeetups(ctx, e.cred)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Bo", mine[0].Buyer.FirstName)
}

func TestCoordinator_ServerRejectionKeepsState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	w := New(e.client, e.cred, "U1", testLogger, WithLookupOptions(search.WithQuietPeriod(fastLookups)))
	defer w.Close()

	require.NoError(t, w.Load(ctx))
	require.NoError(t, w.SelectItem("I1"))
	w.SearchParty("bo")
	require.Eventually(t, func() bool { return len(w.PartyResults()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.SelectParty("U2"))
	w.SetSchedule(tomorrow(), "09:30")
	w.SetLocation("Canteen", 14.65, 121.07)
	before := w.Draft()

	e.store.DeleteUser("U2")
	_, err := w.Submit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotEmpty(t, w.LastError())
	assert.Equal(t, before, w.Draft())
	assert.Nil(t, w.Created())
}

type countingBackend struct {
	creates atomic.Int32
	block   chan struct{}
	entered chan struct{}
}

func (b *countingBackend) MyItems(ctx context.Context, cred api.Credential, activeOnly bool) ([]*domain.Item, error) {
	return []*domain.Item{
		{ID: "I1", SellerID: "U1", Title: "Calculator", Status: domain.ItemStatusActive},
		{ID: "I9", SellerID: "U1", Title: "Sold lamp", Status: domain.ItemStatusSold},
	}, nil
}

func (b *countingBackend) SearchUsers(ctx context.Context, cred api.Credential, q string) ([]*domain.User, error) {
	return []*domain.User{{ID: "U1"}, {ID: "U2", FirstName: "Bo"}}, nil
}

func (b *countingBackend) SearchPlaces(ctx context.Context, cred api.Credential, q string) ([]domain.PlaceCandidate, error) {
	return nil, errors.New("geocoder down")
}

func (b *countingBackend) CreateMeetup(ctx context.Context, cred api.Credential, d domain.MeetupDraft) (*domain.Meetup, error) {
	b.creates.Add(1)
	if b.block != nil {
		close(b.entered)
		<-b.block
	}
	return &domain.Meetup{ID: "M1", Status: domain.StatusPending}, nil
}

func TestCoordinator_LocalValidation(t *testing.T) {
	backend := &countingBackend{}
	w := New(backend, "tok", "U1", testLogger, WithLookupOptions(search.WithQuietPeriod(fastLookups)))
	defer w.Close()
	ctx := context.Background()

	require.NoError(t, w.Load(ctx))
	assert.Len(t, w.Items(), 1, "inactive items are filtered even if the server returns them")
	require.NoError(t, w.SelectItem("I1"))

	w.SearchParty("bo")
	require.Eventually(t, func() bool { return len(w.PartyResults()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Error(t, w.SelectParty("U1"), "self is never offered")
	require.NoError(t, w.SelectParty("U2"))

	w.SetSchedule("2020-01-01", "25:00")
	w.SearchPlace("Library")
	_, err := w.Submit(ctx)
	require.Error(t, err)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems, "scheduledDate cannot be in the past")
	assert.Contains(t, verr.Problems, "scheduledTime must be HH:MM")
	assert.Contains(t, verr.Problems, "location coordinates are required")
	assert.Zero(t, backend.creates.Load())
	assert.NotEmpty(t, w.LastError())
}

func TestCoordinator_GeocoderDownAllowsManualLocation(t *testing.T) {
	backend := &countingBackend{}
	w := New(backend, "tok", "U1", testLogger, WithLookupOptions(search.WithQuietPeriod(fastLookups)))
	defer w.Close()

	w.SearchPlace("Library")
	time.Sleep(5 * fastLookups)
	assert.Empty(t, w.PlaceResults())
	assert.Error(t, w.PickPlace(0))

	w.SetLocation("Library steps", 14.6, 120.9)
	d := w.Draft()
	require.NotNil(t, d.LocationLat)
	assert.Equal(t, 14.6, *d.LocationLat)
}

func TestCoordinator_SingleSubmissionInFlight(t *testing.T) {
	backend := &countingBackend{block: make(chan struct{}), entered: make(chan struct{})}
	w := New(backend, "tok", "U1", testLogger, WithLookupOptions(search.WithQuietPeriod(fastLookups)))
	defer w.Close()
	ctx := context.Background()

	require.NoError(t, w.Load(ctx))
	require.NoError(t, w.SelectItem("I1"))
	w.SearchParty("bo")
	require.Eventually(t, func() bool { return len(w.PartyResults()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.SelectParty("U2"))
	w.SetSchedule(tomorrow(), "10:00")
	w.SetLocation("Gym", 14.6, 120.9)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(ctx)
		done <- err
	}()
	<-backend.entered

	_, err := w.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(backend.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), backend.creates.Load())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "item", StageItem.String())
	assert.Equal(t, "submit", StageSubmit.String())
	assert.Equal(t, "stage(9)", Stage(9).String())
}
