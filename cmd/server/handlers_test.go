package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rpanav/roinav/internal/db"
	"github.com/rpanav/roinav/internal/migrations"
	"github.com/rpanav/roinav/internal/project"
	"github.com/rpanav/roinav/internal/roi"
	"github.com/rpanav/roinav/internal/seed"
	"github.com/rpanav/roinav/internal/settings"
)

func newTestServer(t *testing.T) (*server, *chi.Mux) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(database, seed.Config{AdminEmail: "admin@roinav.io", AdminPassword: "secret"}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	settingsStore := settings.NewStore(database)
	configCache := settings.NewCache(settingsStore, settings.DefaultTTL)
	engine := roi.NewEngine(configCache)

	srv := &server{
		auth:           newAuthService(database, "test-secret"),
		db:             database,
		settings:       settingsStore,
		configCache:    configCache,
		engine:         engine,
		projects:       project.NewStore(database, engine),
		allowedOrigins: originSet([]string{"http://localhost:5173"}),
	}

	r := chi.NewRouter()
	r.Use(srv.corsMiddleware)
	r.Use(srv.authMiddleware)
	r.Get("/api/health", srv.handleHealth)
	r.Post("/api/auth/login", srv.handleLogin)
	r.Post("/api/calculate", srv.handleCalculate)
	r.Get("/api/settings", srv.handleSettingsGet)
	r.Put("/api/settings", srv.handleSettingsUpdate)
	r.Post("/api/projects", srv.handleProjectCreate)
	r.Get("/api/projects", srv.handleProjectsList)

	return srv, r
}

func authedRequest(t *testing.T, srv *server, method, target string, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.AddCookie(&http.Cookie{
		Name:  sessionCookieName,
		Value: srv.auth.createSessionValue("admin@roinav.io"),
	})
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	_, router := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCalculateRequiresSession(t *testing.T) {
	_, router := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader([]byte(`{}`))))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	_, router := newTestServer(t)

	body := []byte(`{"email": "admin@roinav.io", "password": "secret"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a session cookie")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, router := newTestServer(t)

	body := []byte(`{"email": "admin@roinav.io", "password": "wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCalculateReturnsResult(t *testing.T) {
	srv, router := newTestServer(t)

	body := []byte(`{
		"operational": {"volume": 1000, "aht": 10, "fteCost": 3000, "errorRate": 0},
		"complexity": {"numApplications": 1, "dataType": "structured", "environment": ["web"], "numSteps": 5, "useRpaLicense": "yes"},
		"strategic": {"cognitiveLevel": "rule", "inputVariability": "never", "errorCostUnit": "per_failure"}
	}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, srv, http.MethodPost, "/api/calculate", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-encode data: %v", err)
	}
	var result roi.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Complexity.TotalPoints != 4 || result.Complexity.Classification != roi.VerySimple {
		t.Fatalf("unexpected complexity: %+v", result.Complexity)
	}
	if result.Costs.AsIs.Annual != 37500 {
		t.Fatalf("asIs annual = %v, want 37500", result.Costs.AsIs.Annual)
	}
}

func TestCalculateRejectsNegativeInputs(t *testing.T) {
	srv, router := newTestServer(t)

	body := []byte(`{"operational": {"volume": -5, "aht": 10, "fteCost": 3000}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, srv, http.MethodPost, "/api/calculate", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestSettingsUpdateInvalidatesCacheForNextCalculation(t *testing.T) {
	srv, router := newTestServer(t)

	calculate := func() roi.Result {
		body := []byte(`{
			"operational": {"volume": 1000, "aht": 10, "fteCost": 3000, "errorRate": 0},
			"complexity": {"numApplications": 1, "dataType": "structured", "environment": ["web"], "numSteps": 5, "useRpaLicense": "yes"},
			"strategic": {}
		}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, srv, http.MethodPost, "/api/calculate", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("calculate status = %d: %s", rec.Code, rec.Body.String())
		}
		raw, err := json.Marshal(decodeResponse(t, rec).Data)
		if err != nil {
			t.Fatalf("re-encode data: %v", err)
		}
		var result roi.Result
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decode result: %v", err)
		}
		return result
	}

	before := calculate()
	if before.Costs.ToBe.LicenseCost != 15000 {
		t.Fatalf("license cost = %v, want seeded 15000", before.Costs.ToBe.LicenseCost)
	}

	patch := []byte(`{"infra_costs": {"rpa_license_annual": 20000, "virtual_machine_annual": 5000, "database_annual": 0}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, srv, http.MethodPut, "/api/settings", patch))
	if rec.Code != http.StatusOK {
		t.Fatalf("settings update status = %d: %s", rec.Code, rec.Body.String())
	}

	after := calculate()
	if after.Costs.ToBe.LicenseCost != 20000 {
		t.Fatalf("license cost after update = %v, want 20000 without waiting for TTL", after.Costs.ToBe.LicenseCost)
	}
}

func TestSettingsUpdateRequiresAdmin(t *testing.T) {
	srv, router := newTestServer(t)

	// A valid session for a non-admin user.
	if _, err := srv.db.Exec(`INSERT INTO users (email, password_hash, is_admin) VALUES (?, ?, FALSE)`,
		"user@roinav.io", hashPassword("pw")); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader([]byte(`{}`)))
	req.AddCookie(&http.Cookie{
		Name:  sessionCookieName,
		Value: srv.auth.createSessionValue("user@roinav.io"),
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProjectCreateAndList(t *testing.T) {
	srv, router := newTestServer(t)

	body := []byte(`{
		"projectName": "Invoice intake",
		"responsibleName": "Ana",
		"operational": {"volume": 1000, "aht": 10, "fteCost": 3000},
		"complexity": {"numApplications": 1, "dataType": "structured", "environment": ["web"], "numSteps": 5, "useRpaLicense": "yes"},
		"strategic": {}
	}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, srv, http.MethodPost, "/api/projects", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, authedRequest(t, srv, http.MethodGet, "/api/projects?owner=admin@roinav.io", nil))
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", listRec.Code, listRec.Body.String())
	}

	raw, err := json.Marshal(decodeResponse(t, listRec).Data)
	if err != nil {
		t.Fatalf("re-encode data: %v", err)
	}
	var projects []project.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	// Owner defaulted from the session.
	if projects[0].OwnerEmail != "admin@roinav.io" {
		t.Fatalf("ownerEmail = %q, want session email", projects[0].OwnerEmail)
	}
	if projects[0].Results.Complexity.Classification != roi.VerySimple {
		t.Fatalf("unexpected stored classification: %+v", projects[0].Results.Complexity)
	}
}
