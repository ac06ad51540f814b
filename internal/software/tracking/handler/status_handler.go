package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleet-tracking/internal/domain/run"
)

// ----- Handler: GET /runs/{run_id}/status -----

func (handler *TrackingHTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	runID := strings.TrimSpace(r.PathValue("run_id"))
	if runID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing run_id in path", nil)
		return
	}
	ctx = handler.logger.WithRunID(ctx, runID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.GetStatus(ctxWithTimeout, runID)
	if err != nil {
		if errors.Is(err, run.ErrNotTracking) {
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "run is not being tracked", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to fetch run status", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /runs/{run_id}/location -----

func (handler *TrackingHTTPHandler) handleLatestLocation(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	runID := strings.TrimSpace(r.PathValue("run_id"))
	if runID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing run_id in path", nil)
		return
	}
	ctx = handler.logger.WithRunID(ctx, runID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.GetLatestLocation(ctxWithTimeout, runID)
	if err != nil {
		switch {
		case errors.Is(err, run.ErrNotTracking):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "run is not being tracked", err)
		case errors.Is(err, run.ErrNoLocation):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "no location reported yet", err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to fetch latest location", err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
