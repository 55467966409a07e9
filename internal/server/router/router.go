// Package router собирает chi маршруты HTTP API.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/handlers"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/middleware"
)

// Config настраивает CORS, лимиты и раздачу локальных медиа
type Config struct {
	// MediaDir раздается по /media/*, если не пустой
	MediaDir         string
	CORSOrigins      []string
	RateLimitWindow  time.Duration
	RateLimit        int
	LoginRateLimit   int
	CORSMaxAgeSecond int
	// TrustProxy включает chi RealIP; без него лимиты считаются по RemoteAddr
	TrustProxy       bool
}

// Deps зависимости роутера
type Deps struct {
	Logger *slog.Logger
	Tokens *jwt.Service
	Users  middleware.UserLookup
	User   *handlers.UserHandler
	Health *handlers.HealthHandler
}

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
)

// New создает http.Handler со всеми маршрутами
func New(cfg Config, deps Deps) http.Handler {
	logger := deps.Logger

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.LoggingWithSkip(logger, []string{healthPath, metricsPath}))
	r.Use(middleware.MetricsMiddleware)
	// Recovery внутри логирования и метрик: паника видна там как 500
	r.Use(middleware.RecoveryMiddleware(logger))
	// CORS глобально, чтобы обработать OPTIONS preflight
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           cfg.CORSMaxAgeSecond,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, logger, apperr.NotFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, logger, apperr.New(http.StatusMethodNotAllowed, ""))
	})

	r.Get(healthPath, deps.Health.Health)
	r.Handle(metricsPath, promhttp.Handler())

	if cfg.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	auth := middleware.Authenticator(logger, deps.Tokens, deps.Users)
	u := deps.User

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(cfg.RateLimit, window, logger))

		// Публичные маршруты
		r.Post("/register", u.Register)
		r.With(middleware.RateLimitMiddleware(cfg.LoginRateLimit, window, logger)).Post("/login", u.Login)
		r.Post("/refresh-token", u.RefreshToken)

		// Требуют access token
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/logout", u.Logout)
			r.Post("/logout-all", u.LogoutAll)
			r.Post("/change-password", u.ChangePassword)
			r.Get("/current-user", u.CurrentUser)
			r.Post("/current-user", u.CurrentUser)
			r.Patch("/update-account", u.UpdateAccount)
			r.Post("/update-account", u.UpdateAccount)
			r.Patch("/avatar", u.UpdateAvatar)
			r.Patch("/cover-image", u.UpdateCoverImage)
			r.Get("/c/{userName}", u.ChannelProfile)
			r.Post("/c/{userName}/subscription", u.Subscribe)
			r.Delete("/c/{userName}/subscription", u.Unsubscribe)
			r.Get("/history", u.WatchHistory)
			r.Post("/history/{videoID}", u.RecordView)
			r.Get("/sessions", u.Sessions)
		})
	})

	return r
}
