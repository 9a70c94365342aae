package handler

import (
	"context"
	"net"
	"net/http"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/gorilla/mux"

	"github.com/yusufkecer/body-score-backend/internal/middleware"
	"github.com/yusufkecer/body-score-backend/internal/service"
)

const (
	loginRateLimit    = 5
	loginRateWindow   = 15 * time.Minute
	healthPingTimeout = 2 * time.Second
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	JWTSecret      string
	APIKey         string
	AllowedOrigins string
	TrustedProxies []*net.IPNet
}

func NewRouter(
	logger lager.Logger,
	clk clock.Clock,
	cfg RouterConfig,
	accounts AccountStore,
	svc *service.ScoreService,
	db Pinger,
) *mux.Router {
	authHandler := NewAuthHandler(logger, clk, cfg.JWTSecret, accounts)
	profileHandler := NewProfileHandler(logger, clk, svc)
	readingHandler := NewReadingHandler(logger, svc)
	preferenceHandler := NewPreferenceHandler(logger, svc)
	scoreHandler := NewScoreHandler(logger, svc)

	loginRL := middleware.NewRateLimiter(loginRateLimit, loginRateWindow, clk).
		WithTrustedProxies(cfg.TrustedProxies)

	r := mux.NewRouter()

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit)

	r.HandleFunc("/api/v1/health", health(db)).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.Handle("/auth/register", http.HandlerFunc(authHandler.Register)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, clk))

	protected.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/profile", profileHandler.Put).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/readings", readingHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/readings", readingHandler.Latest).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/preferences", preferenceHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/preferences/weights/{category}", preferenceHandler.UpdateWeight).Methods(http.MethodPatch, http.MethodOptions)
	protected.HandleFunc("/preferences/preset/{name}", preferenceHandler.ApplyPreset).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/presets", preferenceHandler.Presets).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/scores", scoreHandler.Refresh).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/scores", scoreHandler.History).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/scores/preview", scoreHandler.Preview).Methods(http.MethodPost, http.MethodOptions)

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
