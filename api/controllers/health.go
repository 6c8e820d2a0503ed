package controllers

import (
	"net/http"

	"github.com/margindesk/margindesk-backend/api/responses"
	"github.com/margindesk/margindesk-backend/pkg/config"
	"github.com/margindesk/margindesk-backend/pkg/db"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
	"github.com/margindesk/margindesk-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MarginDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the database answers a ping.
func HealthReady(cfg *config.Config, client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MarginDesk-Env", cfg.App.Env)

		if client != nil {
			if err := client.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
