package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleet-tracking/internal/domain/run"
)

// ----- Handler: POST /runs/{run_id}/stop -----

func (handler *TrackingHTTPHandler) handleStopRun(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// fetch and check the run id
	runID := strings.TrimSpace(r.PathValue("run_id"))
	if runID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing run_id in path", nil)
		return
	}
	ctx = handler.logger.WithRunID(ctx, runID)

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	summary, err := handler.svc.StopRun(ctxWithTimeout, runID)
	if err != nil {
		if errors.Is(err, run.ErrNotTracking) {
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "run is not being tracked", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to stop run tracking", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, summary)
}
