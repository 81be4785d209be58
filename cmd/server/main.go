package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rpanav/roinav/internal/config"
	"github.com/rpanav/roinav/internal/db"
	"github.com/rpanav/roinav/internal/migrations"
	"github.com/rpanav/roinav/internal/project"
	"github.com/rpanav/roinav/internal/roi"
	"github.com/rpanav/roinav/internal/seed"
	"github.com/rpanav/roinav/internal/settings"
)

type server struct {
	auth           *authService
	db             *sql.DB
	settings       *settings.Store
	configCache    *settings.Cache
	engine         *roi.Engine
	projects       *project.Store
	allowedOrigins map[string]struct{}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type calculationRequest struct {
	Operational roi.OperationalInput `json:"operational"`
	Complexity  roi.ComplexityInput  `json:"complexity"`
	Strategic   roi.StrategicInput   `json:"strategic"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatalf("failed to run startup seed: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d record(s)", stats.Inserts)
	}

	settingsStore := settings.NewStore(database)
	configCache := settings.NewCache(settingsStore, settings.DefaultTTL)
	engine := roi.NewEngine(configCache)

	srv := &server{
		auth:           newAuthService(database, cfg.SessionSecret),
		db:             database,
		settings:       settingsStore,
		configCache:    configCache,
		engine:         engine,
		projects:       project.NewStore(database, engine),
		allowedOrigins: originSet(cfg.AllowedOrigins),
	}

	r := chi.NewRouter()
	r.Use(srv.corsMiddleware)
	r.Use(srv.authMiddleware)
	r.Get("/api/health", srv.handleHealth)
	r.Post("/api/auth/login", srv.handleLogin)
	r.Post("/api/auth/logout", srv.handleLogout)
	r.Post("/api/calculate", srv.handleCalculate)
	r.Get("/api/settings", srv.handleSettingsGet)
	r.Put("/api/settings", srv.handleSettingsUpdate)
	r.Post("/api/projects", srv.handleProjectCreate)
	r.Get("/api/projects", srv.handleProjectsList)
	r.Get("/api/projects/{id}", srv.handleProjectGet)
	r.Put("/api/projects/{id}", srv.handleProjectUpdate)
	r.Delete("/api/projects/{id}", srv.handleProjectDelete)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func originSet(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		set[origin] = struct{}{}
	}
	return set
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := s.auth.validateCredentials(req.Email, req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	admin, err := s.auth.isAdmin(req.Email)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "authentication error")
		return
	}

	s.auth.setSessionCookie(w, req.Email)
	s.respond(w, http.StatusOK, map[string]any{"email": req.Email, "isAdmin": admin})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	s.respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleCalculate runs a preview calculation without persisting anything,
// so the wizard can show live results before the user saves a project.
func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateCalculationRequest(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Calculate(r.Context(), req.Operational, req.Complexity, req.Strategic)
	if err != nil {
		s.respondCalculationError(w, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.settings.Get(r.Context())
	if errors.Is(err, settings.ErrNotFound) {
		// First-run: serve the documented defaults instead of an error.
		s.respond(w, http.StatusOK, settings.DefaultDocument())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	s.respond(w, http.StatusOK, doc)
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var patch json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.settings.Update(r.Context(), patch)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	// Make the new rates visible to the next calculation immediately.
	s.configCache.Invalidate()

	s.respond(w, http.StatusOK, doc)
}

func (s *server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req project.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		s.respondError(w, http.StatusBadRequest, "projectName is required")
		return
	}
	if err := validateCalculationRequest(calculationRequest{
		Operational: req.Operational,
		Complexity:  req.Complexity,
		Strategic:   req.Strategic,
	}); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.OwnerEmail == "" {
		if email, ok := sessionEmail(r, s.auth); ok {
			req.OwnerEmail = email
		}
	}

	created, err := s.projects.Create(r.Context(), req)
	if err != nil {
		s.respondCalculationError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, created)
}

func (s *server) handleProjectsList(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	projects, err := s.projects.List(r.Context(), owner, limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	s.respond(w, http.StatusOK, projects)
}

func (s *server) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, project.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load project")
		return
	}

	s.respond(w, http.StatusOK, p)
}

func (s *server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Inputs != nil {
		if err := validateCalculationRequest(calculationRequest{
			Operational: req.Inputs.Operational,
			Complexity:  req.Inputs.Complexity,
			Strategic:   req.Inputs.Strategic,
		}); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	updated, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), req)
	if errors.Is(err, project.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.respondCalculationError(w, err)
		return
	}

	s.respond(w, http.StatusOK, updated)
}

func (s *server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	err := s.projects.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, project.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// validateCalculationRequest rejects negative numeric inputs at the boundary.
// The calculation core itself tolerates them, so this is the single place the
// decision to reject lives.
func validateCalculationRequest(req calculationRequest) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"volume", req.Operational.Volume},
		{"aht", req.Operational.AHT},
		{"fteCost", req.Operational.FTECost},
		{"errorRate", req.Operational.ErrorRate},
		{"errorCost", req.Strategic.ErrorCost},
		{"turnoverRate", req.Strategic.TurnoverRate},
	}
	for _, check := range checks {
		if check.value < 0 {
			return fmt.Errorf("%s must be greater than or equal to 0", check.name)
		}
	}
	if req.Complexity.NumApplications < 0 {
		return fmt.Errorf("numApplications must be greater than or equal to 0")
	}
	if req.Complexity.NumSteps < 0 {
		return fmt.Errorf("numSteps must be greater than or equal to 0")
	}
	if req.Complexity.RPALicenseCost != nil && *req.Complexity.RPALicenseCost < 0 {
		return fmt.Errorf("rpaLicenseCost must be greater than or equal to 0")
	}
	return nil
}

func (s *server) respondCalculationError(w http.ResponseWriter, err error) {
	if errors.Is(err, settings.ErrConfigUnavailable) {
		s.respondError(w, http.StatusServiceUnavailable, "calculation could not complete; configuration unavailable")
		return
	}
	s.respondError(w, http.StatusInternalServerError, "calculation failed")
}

func (s *server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message}); err != nil {
		log.Printf("encode error response: %v", err)
	}
}

func (s *server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	email, ok := sessionEmail(r, s.auth)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return false
	}

	admin, err := s.auth.isAdmin(email)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "authorization error")
		return false
	}
	if !admin {
		s.respondError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" || r.URL.Path == "/api/auth/login" {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := sessionEmail(r, s.auth); !ok {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := s.allowedOrigins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
