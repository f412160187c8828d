package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ipotrak/ipotrak/pkg/config"
	"github.com/ipotrak/ipotrak/pkg/export"
	"github.com/ipotrak/ipotrak/pkg/models"
	"github.com/ipotrak/ipotrak/pkg/registrar"
	"github.com/ipotrak/ipotrak/pkg/report"
	"github.com/ipotrak/ipotrak/pkg/service"
)

// Server exposes the tracker over a small JSON API so the account collection
// can be driven from something other than the CLI.
type Server struct {
	config  *config.Config
	logger  *log.Logger
	mux     *http.ServeMux
	tracker *service.Tracker
}

// New creates a new HTTP server around an already-loaded tracker.
func New(cfg *config.Config, logger *log.Logger, tracker *service.Tracker) *Server {
	return &Server{
		config:  cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		tracker: tracker,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/accounts", s.withLogging(s.handleAccounts))
	s.mux.HandleFunc("/api/accounts/export.csv", s.withLogging(s.handleExportCSV))
	s.mux.HandleFunc("/api/accounts/{id}", s.withLogging(s.handleAccount))
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("/api/reports/applied", s.withLogging(s.handleAppliedReport))
	s.mux.HandleFunc("/api/reports/financials", s.withLogging(s.handleFinancialReport))
	s.mux.HandleFunc("/api/registrar", s.withLogging(s.handleRegistrar))
	s.mux.HandleFunc("/api/reset", s.withLogging(s.handleReset))
}

func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next(w, r)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Error(message, "path", r.URL.Path, "error", err)
	}
	s.respondJSON(w, status, map[string]string{"error": message})
}

// handleAccounts lists accounts (GET, optional ?q= search) or adds a single
// account (POST).
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts := s.tracker.Search(r.URL.Query().Get("q"))
		if accounts == nil {
			accounts = []*models.Account{}
		}
		s.respondJSON(w, http.StatusOK, accounts)

	case http.MethodPost:
		account := models.New()
		if err := json.NewDecoder(r.Body).Decode(account); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid account payload", err)
			return
		}
		if err := s.tracker.Add(account); err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondJSON(w, http.StatusCreated, account)

	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

// handleAccount edits one stored account: PUT replaces its fields, PATCH
// moves it to a new lifecycle stage.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	existing, err := s.tracker.Get(r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, err.Error(), nil)
		return
	}

	switch r.Method {
	case http.MethodPut:
		// Decode over a copy so fields absent from the payload keep their
		// stored values, and the identity cannot be rewritten.
		updated := *existing
		if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid account payload", err)
			return
		}
		updated.ID = existing.ID
		if err := s.tracker.Update(&updated); err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondJSON(w, http.StatusOK, &updated)

	case http.MethodPatch:
		var req struct {
			Status models.ApplicationStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid request payload", err)
			return
		}
		switch req.Status {
		case models.StatusPending, models.StatusApplied, models.StatusAllotted:
		default:
			s.respondError(w, r, http.StatusBadRequest, "unknown status", nil)
			return
		}
		if err := s.tracker.SetStatus(existing.ID, req.Status); err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondJSON(w, http.StatusOK, existing)

	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	if err := export.WriteCSV(w, s.tracker.Accounts(), nil); err != nil {
		s.logger.Error("failed to write csv", "error", err)
	}
}

// handleImport accepts a raw bulk paste and merges the parsed accounts.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request payload", err)
		return
	}

	message := s.tracker.BulkAdd(req.Text)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// handleSummary applies a pasted status/financial summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req struct {
		Text           string `json:"text"`
		MarkAsAllotted bool   `json:"markAsAllotted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request payload", err)
		return
	}

	result := s.tracker.ImportSummary(req.Text, req.MarkAsAllotted)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":          result.Message,
		"statusChanges":    result.StatusChanges,
		"financialChanges": result.FinancialChanges,
		"switchToAllotted": result.SwitchToAllotted,
	})
}

func (s *Server) handleAppliedReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	summary := report.AppliedSummary(s.tracker.Accounts())
	if summary == "" {
		s.respondError(w, r, http.StatusNotFound, "No accounts have been marked as applied.", nil)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleFinancialReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	text := report.FinancialReport(s.tracker.Allotted(), s.tracker.TotalInvestment())
	if text == "" {
		s.respondError(w, r, http.StatusNotFound, "No allotted accounts to copy.", nil)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"report": text})
}

// handleRegistrar looks up which registrar handles the named IPO. A hard
// lookup failure and a clean not-found answer are distinct to the client.
func (s *Server) handleRegistrar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	ipoName := r.URL.Query().Get("ipo")
	if ipoName == "" {
		s.respondError(w, r, http.StatusBadRequest, "missing ipo query parameter", nil)
		return
	}

	client, err := registrar.New(r.Context(), s.config.Model)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "Could not reach the registrar lookup service. Please try again later.", err)
		return
	}

	info, err := client.Find(r.Context(), ipoName)
	if errors.Is(err, registrar.ErrNotFound) {
		s.respondError(w, r, http.StatusNotFound, "Registrar not found for this IPO.", nil)
		return
	}
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "Could not reach the registrar lookup service. Please try again later.", err)
		return
	}
	s.respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	s.tracker.ResetAll()
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "All accounts have been reset."})
}
