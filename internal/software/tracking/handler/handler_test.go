package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleet-tracking/internal/domain/run"
	"fleet-tracking/internal/domain/user"
	"fleet-tracking/internal/general/jwt"
	"fleet-tracking/internal/general/logger"
	"fleet-tracking/internal/ports"
)

// fakeTrackingService is a scriptable stand-in for the engine.
type fakeTrackingService struct {
	startErr  error
	updateErr error
	stopErr   error
	statusErr error
	latestErr error

	lastStart  ports.StartRunInput
	lastUpdate ports.UpdateLocationInput
}

func (f *fakeTrackingService) StartRun(ctx context.Context, in ports.StartRunInput) (ports.StartRunResult, error) {
	f.lastStart = in
	if f.startErr != nil {
		return ports.StartRunResult{}, f.startErr
	}
	return ports.StartRunResult{RunID: in.RunID, Status: "TRACKING", StartedAt: time.Now().UTC(), Message: "ok"}, nil
}

func (f *fakeTrackingService) UpdateLocation(ctx context.Context, in ports.UpdateLocationInput) (ports.UpdateLocationResult, error) {
	f.lastUpdate = in
	if f.updateErr != nil {
		return ports.UpdateLocationResult{}, f.updateErr
	}
	return ports.UpdateLocationResult{RunID: in.RunID, PointCount: 1, ReceivedAt: time.Now().UTC()}, nil
}

func (f *fakeTrackingService) StopRun(ctx context.Context, runID string) (run.Summary, error) {
	if f.stopErr != nil {
		return run.Summary{}, f.stopErr
	}
	return run.Summary{RunID: runID, PointCount: 2, DurationSeconds: 60}, nil
}

func (f *fakeTrackingService) GetStatus(ctx context.Context, runID string) (ports.RunStatusResult, error) {
	if f.statusErr != nil {
		return ports.RunStatusResult{}, f.statusErr
	}
	return ports.RunStatusResult{RunID: runID, Status: "TRACKING", PointCount: 3}, nil
}

func (f *fakeTrackingService) GetLatestLocation(ctx context.Context, runID string) (ports.LatestLocationResult, error) {
	if f.latestErr != nil {
		return ports.LatestLocationResult{}, f.latestErr
	}
	return ports.LatestLocationResult{RunID: runID, Latitude: 41.3, Longitude: 69.2, RecordedAt: time.Now().UTC()}, nil
}

func (f *fakeTrackingService) Subscribe(runID string, sub ports.Subscriber)      {}
func (f *fakeTrackingService) Unsubscribe(runID string, subscriberID string)    {}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T, svc ports.TrackingService) (*http.ServeMux, *jwt.Manager) {
	t.Helper()
	mgr := jwt.NewManager(testSecret, time.Hour)
	h := NewTrackingHTTPHandler(svc, logger.New("handler-test"), mgr, nil)

	mux := http.NewServeMux()
	// the websocket route needs a live hub; register the HTTP routes directly
	mux.HandleFunc("POST /runs/{run_id}/start",
		jwt.AuthMiddlewareFunc(mgr, user.RoleDriver, user.RoleDispatcher, user.RoleAdmin)(h.handleStartRun))
	mux.HandleFunc("POST /runs/{run_id}/location",
		jwt.AuthMiddlewareFunc(mgr, user.RoleDriver)(h.handleUpdateLocation))
	mux.HandleFunc("POST /runs/{run_id}/stop",
		jwt.AuthMiddlewareFunc(mgr, user.RoleDriver, user.RoleDispatcher, user.RoleAdmin)(h.handleStopRun))
	mux.HandleFunc("GET /runs/{run_id}/status",
		jwt.AuthMiddlewareFunc(mgr, user.RoleDriver, user.RoleDispatcher, user.RoleAdmin)(h.handleStatus))
	mux.HandleFunc("GET /runs/{run_id}/location",
		jwt.AuthMiddlewareFunc(mgr, user.RoleDriver, user.RoleDispatcher, user.RoleAdmin)(h.handleLatestLocation))
	mux.HandleFunc("GET /tracking/health", h.handleHealth)
	mux.HandleFunc("POST /tokens", h.handleCreateToken)
	return mux, mgr
}

func bearerFor(t *testing.T, mgr *jwt.Manager, role user.Role) string {
	t.Helper()
	token, _, err := mgr.IssueUserToken("user-1", role)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestStartRunHandler(t *testing.T) {
	svc := &fakeTrackingService{}
	mux, mgr := newTestHandler(t, svc)
	auth := bearerFor(t, mgr, user.RoleDispatcher)

	body := map[string]any{
		"route_name":       "Route 12",
		"driver_ref":       "driver-42",
		"student_refs":     []string{"s1", "s2"},
		"pickup_location":  map[string]float64{"latitude": 41.31, "longitude": 69.28},
		"dropoff_location": map[string]float64{"latitude": 41.35, "longitude": 69.30},
	}

	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/start", auth, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.lastStart.RunID != "run-1" || svc.lastStart.DriverRef != "driver-42" {
		t.Fatalf("service input = %+v", svc.lastStart)
	}
	if len(svc.lastStart.StudentRefs) != 2 {
		t.Fatalf("StudentRefs = %v", svc.lastStart.StudentRefs)
	}
}

func TestStartRunHandlerConflict(t *testing.T) {
	svc := &fakeTrackingService{startErr: run.ErrAlreadyTracking}
	mux, mgr := newTestHandler(t, svc)
	auth := bearerFor(t, mgr, user.RoleAdmin)

	body := map[string]any{"route_name": "r", "driver_ref": "d"}
	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/start", auth, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}

func TestStartRunHandlerRejectsUnknownFields(t *testing.T) {
	svc := &fakeTrackingService{}
	mux, mgr := newTestHandler(t, svc)
	auth := bearerFor(t, mgr, user.RoleDriver)

	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/start", auth, map[string]any{"bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlersRequireAuth(t *testing.T) {
	svc := &fakeTrackingService{}
	mux, _ := newTestHandler(t, svc)

	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/start", "", map[string]any{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUpdateLocationHandlerRoleEnforcement(t *testing.T) {
	svc := &fakeTrackingService{}
	mux, mgr := newTestHandler(t, svc)

	// only drivers may post locations
	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/location",
		bearerFor(t, mgr, user.RoleDispatcher),
		map[string]any{"latitude": 41.3, "longitude": 69.2})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("dispatcher status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/runs/run-1/location",
		bearerFor(t, mgr, user.RoleDriver),
		map[string]any{"latitude": 41.3, "longitude": 69.2})
	if rec.Code != http.StatusOK {
		t.Fatalf("driver status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.Latitude != 41.3 {
		t.Fatalf("service input = %+v", svc.lastUpdate)
	}
}

func TestUpdateLocationHandlerNotTracking(t *testing.T) {
	svc := &fakeTrackingService{updateErr: run.ErrNotTracking}
	mux, mgr := newTestHandler(t, svc)

	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/location",
		bearerFor(t, mgr, user.RoleDriver),
		map[string]any{"latitude": 41.3, "longitude": 69.2})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStopRunHandler(t *testing.T) {
	svc := &fakeTrackingService{}
	mux, mgr := newTestHandler(t, svc)

	rec := doJSON(t, mux, http.MethodPost, "/runs/run-1/stop", bearerFor(t, mgr, user.RoleDriver), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var summary run.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.RunID != "run-1" || summary.PointCount != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestStatusHandlers(t *testing.T) {
	t.Run("status found", func(t *testing.T) {
		mux, mgr := newTestHandler(t, &fakeTrackingService{})
		rec := doJSON(t, mux, http.MethodGet, "/runs/run-1/status", bearerFor(t, mgr, user.RoleAdmin), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("status not tracking", func(t *testing.T) {
		mux, mgr := newTestHandler(t, &fakeTrackingService{statusErr: run.ErrNotTracking})
		rec := doJSON(t, mux, http.MethodGet, "/runs/run-1/status", bearerFor(t, mgr, user.RoleAdmin), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("latest location no reports", func(t *testing.T) {
		mux, mgr := newTestHandler(t, &fakeTrackingService{latestErr: run.ErrNoLocation})
		rec := doJSON(t, mux, http.MethodGet, "/runs/run-1/location", bearerFor(t, mgr, user.RoleAdmin), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	mux, _ := newTestHandler(t, &fakeTrackingService{})
	rec := doJSON(t, mux, http.MethodGet, "/tracking/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Status != "ok" {
		t.Fatalf("body = %s, err = %v", rec.Body.String(), err)
	}
}

func TestCreateTokenHandler(t *testing.T) {
	mux, mgr := newTestHandler(t, &fakeTrackingService{})

	rec := doJSON(t, mux, http.MethodPost, "/tokens", "", TokenRequest{UserID: "user-9", Role: user.RoleDriver})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	// the minted token must round-trip through the manager
	_, claims, err := mgr.ParseAndValidate(resp.Token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-9" || claims.Role != user.RoleDriver {
		t.Fatalf("claims = %+v", claims)
	}

	// missing user_id is rejected
	rec = doJSON(t, mux, http.MethodPost, "/tokens", "", TokenRequest{Role: user.RoleDriver})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMissingRunIDInPath(t *testing.T) {
	// a run_id of pure whitespace survives routing but fails validation
	mux, mgr := newTestHandler(t, &fakeTrackingService{})
	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/runs/%s/stop", "%20"), bearerFor(t, mgr, user.RoleDriver), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
