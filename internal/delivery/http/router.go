package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"acadswap/internal/delivery/http/controllers"
	"acadswap/internal/delivery/http/helpers"
	"acadswap/internal/delivery/http/middleware"
	"acadswap/internal/domain"
)

// RouterConfig carries everything NewRouter wires into the mux.
type RouterConfig struct {
	Logger        *slog.Logger
	Verifier      domain.TokenVerifier
	Meetups       *controllers.MeetupController
	Items         *controllers.ItemController
	SearchLimiter *middleware.RateLimiter
	CORSOrigins   []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.SearchLimiter == nil {
			return auth(h)
		}
		return auth(cfg.SearchLimiter.Limit(h))
	}

	// Meetups
	mux.HandleFunc("GET /api/meetup/my-meetups", auth(cfg.Meetups.MyMeetups))
	mux.HandleFunc("POST /api/meetup/create", auth(cfg.Meetups.CreateMeetup))
	mux.HandleFunc("GET /api/meetup/cancellation-reasons", cfg.Meetups.CancellationReasons)
	mux.HandleFunc("GET /api/meetup/search-users", limited(cfg.Meetups.SearchUsers))
	mux.HandleFunc("GET /api/meetup/search-places", limited(cfg.Meetups.SearchPlaces))
	mux.HandleFunc("GET /api/meetup/{id}", auth(cfg.Meetups.GetMeetup))
	mux.HandleFunc("PUT /api/meetup/{id}/accept", auth(cfg.Meetups.Accept))
	mux.HandleFunc("PUT /api/meetup/{id}/decline", auth(cfg.Meetups.Decline))
	mux.HandleFunc("PUT /api/meetup/{id}/complete", auth(cfg.Meetups.Complete))
	mux.HandleFunc("DELETE /api/meetup/{id}/cancel", auth(cfg.Meetups.Cancel))
	mux.HandleFunc("PUT /api/meetup/{id}/reschedule", auth(cfg.Meetups.Reschedule))

	// Items
	mux.HandleFunc("GET /items/user/me", auth(cfg.Items.MyItems))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.CORSOrigins, mux))
}
