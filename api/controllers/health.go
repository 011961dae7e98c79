package controllers

import (
	"context"
	"net/http"

	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/pkg/config"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CAF-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady fails when the database (or redis, when configured) is
// unreachable so the load balancer stops routing traffic here.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CAF-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" indisponible")
				responses.WriteError(r.Context(), logg, w, wrapped)
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
