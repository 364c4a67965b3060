package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

const banner = "Pali Server API v1.0 - Self-hosted todo management"

// HandleRoot godoc
//
//	@Summary	API banner
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	palisdk.Envelope[string]	"banner"
//	@Router		/ [get].
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteSuccess(w, http.StatusOK, banner)
}

// HandleHealth godoc
//
//	@Summary	Plain health check
//	@Tags		Health
//	@Produce	plain
//	@Success	200	{string}	string	"OK"
//	@Router		/health [get].
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	palisdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, palisdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports 503 while the credential store cannot be reached.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	palisdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	palisdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &palisdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, palisdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
