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

type startRunRequest struct {
	RouteName   string       `json:"route_name"`
	DriverRef   string       `json:"driver_ref"`
	StudentRefs []string     `json:"student_refs,omitempty"`
	Pickup      ports.GeoPoint `json:"pickup_location"`
	Dropoff     ports.GeoPoint `json:"dropoff_location"`
}

// ----- Handler: POST /runs/{run_id}/start -----

func (handler *TrackingHTTPHandler) handleStartRun(w http.ResponseWriter, r *http.Request) {
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
	var req startRunRequest
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
	in := ports.StartRunInput{
		RunID:       runID,
		RouteName:   req.RouteName,
		DriverRef:   req.DriverRef,
		StudentRefs: req.StudentRefs,
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.StartRun(ctxWithTimeout, in)
	if err != nil {
		switch {
		case errors.Is(err, run.ErrAlreadyTracking):
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, "run is already being tracked", err)
		case errors.Is(err, run.ErrEmptyRunID),
			errors.Is(err, run.ErrEmptyDriver),
			errors.Is(err, geo.ErrInvalidLatitude),
			errors.Is(err, geo.ErrInvalidLongitude):
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to start run tracking", err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
