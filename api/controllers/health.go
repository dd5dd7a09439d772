package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/brewery-backend/api/responses"
	"github.com/angelmondragon/brewery-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/brewery-backend/pkg/errors"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
)

// Pinger is any dependency that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

const envHeader = "X-Brewery-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and the cache backend.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, cacheP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]Pinger{"database": dbP, "cache": cacheP}
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]any{"dependency": name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
