package httpx

import (
	"context"
	"net/http"
	"time"
)

// healthProbeTimeout bounds the liveness query.
const healthProbeTimeout = 2 * time.Second

// HealthChecker is satisfied by *database.Database.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
} // @name HealthResponse

// HealthHandler returns an http.HandlerFunc that probes the database.
// It answers 200 {"status":"ok"} or 500 {"status":"error","error":...}.
//
//	@Summary		Health check
//	@Description	Runs a trivial query against the database
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Failure		500	{object}	healthResponse
//	@Router			/health [get]
func HealthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			JSON(w, http.StatusInternalServerError, healthResponse{Status: "error", Error: err.Error()})
			return
		}
		JSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
