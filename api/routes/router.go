package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/carbon-api/api/controllers"
	"github.com/angelmondragon/carbon-api/api/middleware"
	"github.com/angelmondragon/carbon-api/internal/usages"
	"github.com/angelmondragon/carbon-api/internal/usagetypes"
	"github.com/angelmondragon/carbon-api/pkg/config"
	"github.com/angelmondragon/carbon-api/pkg/logger"
	"github.com/angelmondragon/carbon-api/pkg/metrics"
	pkgredis "github.com/angelmondragon/carbon-api/pkg/redis"
)

// Deps carries everything the router wires into handlers and middleware.
// RateLimiter and Idempotency are optional; leave them nil when redis is not
// configured. Readiness must only hold non-nil pingers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Validator   middleware.TokenValidator
	Usages      usages.Service
	UsageTypes  usagetypes.Service
	RateLimiter pkgredis.RateLimiter
	Idempotency pkgredis.IdempotencyStore
	Metrics     *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Readiness   map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	writePolicy := middleware.NewWriteRateLimitPolicy(
		"usages",
		cfg.RateLimit.Window,
		cfg.RateLimit.Writes,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Readiness, logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Get("/types", controllers.UsageTypeList(deps.UsageTypes, logg))

	r.Route("/usages", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Validator, deps.Metrics, logg))
		r.Use(middleware.WriteRateLimit(writePolicy, deps.RateLimiter, deps.Metrics, logg))
		r.Use(middleware.Idempotency(deps.Idempotency, cfg.Idempotency.TTL, logg))

		r.Post("/", controllers.UsageCreate(deps.Usages, logg))
		r.Get("/", controllers.UsageList(deps.Usages, logg))
		r.Get("/{id}", controllers.UsageGet(deps.Usages, logg))
		r.Put("/{id}", controllers.UsageUpdate(deps.Usages, logg))
		r.Delete("/{id}", controllers.UsageDelete(deps.Usages, logg))
	})

	return r
}
