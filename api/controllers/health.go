package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	"github.com/angelmondragon/pokeshop-api/pkg/config"
	"github.com/angelmondragon/pokeshop-api/pkg/db"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

const (
	envHeader         = "X-Pokeshop-Env"
	readyCheckTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the store and, when configured, Redis. A nil redisP skips the cache check.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").
					WithDetails(map[string]string{"dependency": "database"}))
			return
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
						WithDetails(map[string]string{"dependency": "redis"}))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
