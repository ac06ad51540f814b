package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleet-tracking/internal/domain/geo"
	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type updateLocationRequest struct {
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	SpeedKmh       *float64   `json:"speed_kmh,omitempty"`
	HeadingDegrees *float64   `json:"heading_degrees,omitempty"`
	RecordedAt     *time.Time `json:"recorded_at,omitempty"`
}

// ----- Handler: POST /runs/{run_id}/location -----

func (handler *TrackingHTTPHandler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// check the content type
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	// limit body size
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// fetch and check the run id
	runID := strings.TrimSpace(r.PathValue("run_id"))
	if runID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing run_id in path", nil)
		return
	}
	ctx = handler.logger.WithRunID(ctx, runID)

	// decode strictly
	var req updateLocationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	// map to service DTO defined in ports
	in := ports.UpdateLocationInput{
		RunID:          runID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		SpeedKmh:       req.SpeedKmh,
		HeadingDegrees: req.HeadingDegrees,
	}
	if req.RecordedAt != nil {
		in.RecordedAt = *req.RecordedAt
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.UpdateLocation(ctxWithTimeout, in)
	if err != nil {
		switch {
		case errors.Is(err, run.ErrNotTracking):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "run is not being tracked", err)
		case errors.Is(err, geo.ErrInvalidLatitude),
			errors.Is(err, geo.ErrInvalidLongitude),
			errors.Is(err, geo.ErrNegativeAccuracy),
			errors.Is(err, geo.ErrNegativeSpeed),
			errors.Is(err, geo.ErrInvalidHeading):
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to update location", err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
