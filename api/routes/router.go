package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pokeshop-api/api/controllers"
	ordercontrollers "github.com/angelmondragon/pokeshop-api/api/controllers/orders"
	pokemoncontrollers "github.com/angelmondragon/pokeshop-api/api/controllers/pokemon"
	usercontrollers "github.com/angelmondragon/pokeshop-api/api/controllers/users"
	"github.com/angelmondragon/pokeshop-api/api/middleware"
	"github.com/angelmondragon/pokeshop-api/internal/orders"
	"github.com/angelmondragon/pokeshop-api/internal/pokemon"
	"github.com/angelmondragon/pokeshop-api/internal/users"
	"github.com/angelmondragon/pokeshop-api/pkg/config"
	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
	"github.com/angelmondragon/pokeshop-api/pkg/metrics"
	pkgredis "github.com/angelmondragon/pokeshop-api/pkg/redis"
)

// Cache is the optional Redis surface: readiness plus idempotency storage.
type Cache interface {
	db.Pinger
	pkgredis.IdempotencyStore
}

// NewRouter wires middleware and every route. cache and gatherer may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache Cache,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	userService users.Service,
	orderService orders.Service,
	pokemonService pokemon.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	var (
		readyRedis db.Pinger
		idemStore  pkgredis.IdempotencyStore
	)
	if cache != nil {
		readyRedis = cache
		idemStore = cache
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, readyRedis))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Timeout(cfg.HTTP.RequestTimeout),
			middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
			middleware.Idempotency(idemStore, cfg.Redis.IdempotencyTTL, logg),
		)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", usercontrollers.List(userService, logg))
			r.Post("/", usercontrollers.Create(userService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", usercontrollers.Get(userService, logg))
				r.Put("/", usercontrollers.Update(userService, logg))
				r.Delete("/", usercontrollers.Delete(userService, logg))
				r.Get("/orders", ordercontrollers.ListByUser(orderService, logg))
				r.Put("/check-inactive", usercontrollers.CheckInactive(userService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(orderService, logg))
			r.Post("/", ordercontrollers.Create(orderService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ordercontrollers.Get(orderService, logg))
				r.Put("/", ordercontrollers.Update(orderService, logg))
				r.Delete("/", ordercontrollers.Delete(orderService, logg))
			})
		})

		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/", pokemoncontrollers.List(pokemonService, logg))
			r.Get("/{id}", pokemoncontrollers.Get(pokemonService, logg))
			r.Get("/{id}/{info}", pokemoncontrollers.Info(pokemonService, logg))
		})
	})

	return r
}
