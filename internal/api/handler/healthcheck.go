package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/pkg/apiErrors"
)

// Pinger verifica a disponibilidade do armazenamento
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Time    string `json:"time"`
}

func HealthcheckHandler(backend string, pinger Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := pinger.Ping(ctx); err != nil {
				logrus.WithError(err).Warn("error responding to healthcheck")
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Armazenamento indisponível", nil)
				return
			}
		}

		writeJSON(w, http.StatusOK, healthStatus{
			Status:  "ok",
			Backend: backend,
			Time:    time.Now().UTC().Format(time.RFC3339),
		}, "")
	})
}
