package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"acadswap/config"
	_ "acadswap/docs"
	"acadswap/internal/adapters/auth"
	"acadswap/internal/adapters/nominatim"
	delivery "acadswap/internal/delivery/http"
	"acadswap/internal/delivery/http/controllers"
	"acadswap/internal/delivery/http/middleware"
	"acadswap/internal/domain"
	"acadswap/internal/repository/memory"
	"acadswap/internal/repository/postgres"
	"acadswap/internal/services"
	"acadswap/internal/telemetry"
)

// @title AcadSwap Meetup API
// @version 1.0
// @description Meetup coordination between sellers and buyers of campus marketplace items.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// repositories is the storage surface the services need.
type repositories struct {
	meetups domain.MeetupRepository
	users   domain.UserRepository
	items   domain.ItemRepository
	uow     domain.UnitOfWork
	close   func() error
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	jwtAuth := auth.NewJWTAuthority(cfg.JWTSecret)
	repos, err := openStorage(ctx, cfg, logger, jwtAuth)
	if err != nil {
		return err
	}
	defer repos.close()

	awarder := services.NewReputationAwarder(cfg.CompletionReward, cfg.CancelPenalties)
	meetupService := services.NewMeetupService(repos.meetups, repos.users, repos.items, repos.uow, awarder, logger, cfg.RequestTimeout)
	itemService := services.NewItemService(repos.items)
	geocoder := nominatim.NewGeocoder(&http.Client{Timeout: 5 * time.Second}, cfg.GeocoderURL, cfg.GeocoderUserAgent, logger)

	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:        logger,
		Verifier:      jwtAuth,
		Meetups:       controllers.NewMeetupController(logger, meetupService, geocoder),
		Items:         controllers.NewItemController(logger, itemService),
		SearchLimiter: middleware.NewRateLimiter(cfg.SearchRateLimit, cfg.SearchRateBurst),
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, issuer domain.TokenIssuer) (*repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore()
		seedDemo(store, logger, issuer, cfg.IsProduction())
		return &repositories{
			meetups: store.Meetups(),
			users:   store.Users(),
			items:   store.Items(),
			uow:     store,
			close:   func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("connected to postgres")

	store := postgres.NewStore(db)
	return &repositories{
		meetups: postgres.NewMeetupRepository(db),
		users:   postgres.NewUserRepository(db),
		items:   postgres.NewItemRepository(db),
		uow:     store,
		close:   db.Close,
	}, nil
}

// seedDemo fills the memory store with two users and their items. Outside production it logs
// a bearer token per user so the API can be exercised by hand.
func seedDemo(store *memory.Store, logger *slog.Logger, issuer domain.TokenIssuer, production bool) {
	now := time.Now()
	users := []*domain.User{
		{ID: "11111111-1111-4111-8111-111111111111", FirstName: "Sam", LastName: "Santos", Email: "sam@campus.edu", ReputationScore: 10, CreatedAt: now},
		{ID: "22222222-2222-4222-8222-222222222222", FirstName: "Bea", LastName: "Reyes", Email: "bea@campus.edu", ReputationScore: 10, CreatedAt: now},
	}
	for _, u := range users {
		store.AddUser(u)
	}
	store.AddItem(&domain.Item{SellerID: users[0].ID, Title: "Scientific calculator", Price: 650, Status: domain.ItemStatusActive, CreatedAt: now})
	store.AddItem(&domain.Item{SellerID: users[0].ID, Title: "Physics textbook", Price: 900, Status: domain.ItemStatusSold, CreatedAt: now})
	store.AddItem(&domain.Item{SellerID: users[1].ID, Title: "Lab gown", Price: 300, Status: domain.ItemStatusActive, CreatedAt: now})

	if production {
		return
	}
	for _, u := range users {
		token, err := issuer.Issue(u.ID, u.Email, 24*time.Hour)
		if err != nil {
			logger.Warn("failed to issue demo token", "user_id", u.ID, "error", err)
			continue
		}
		logger.Info("demo user", "user_id", u.ID, "email", u.Email, "token", token)
	}
}
