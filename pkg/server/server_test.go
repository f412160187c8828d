package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ipotrak/ipotrak/pkg/config"
	"github.com/ipotrak/ipotrak/pkg/models"
	"github.com/ipotrak/ipotrak/pkg/service"
	"github.com/ipotrak/ipotrak/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tracker := service.NewTracker(store.NewMemStore(), log.Default())
	s := New(&config.Config{}, log.Default(), tracker)
	s.setupRoutes()
	return s
}

func TestImportAndListAccounts(t *testing.T) {
	s := newTestServer(t)

	body := `{"text": "1) Jane Doe Upstox\n9876543210\nABCDE1234F"}`
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	var importResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &importResp); err != nil {
		t.Fatal(err)
	}
	if importResp["message"] != "Successfully added 1 new accounts." {
		t.Errorf("message = %q", importResp["message"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/accounts?q=jane", nil)
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var accounts []*models.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Jane Doe" {
		t.Errorf("accounts = %+v", accounts)
	}
}

func TestEditAccountEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.tracker.BulkAdd("1) Jane Doe Upstox\n9876543210\nABCDE1234F")
	id := s.tracker.Accounts()[0].ID

	body := `{"name": "Jane D. Doe", "notes": "joint account"}`
	req := httptest.NewRequest(http.MethodPut, "/api/accounts/"+id, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	stored := s.tracker.Accounts()[0]
	if stored.Name != "Jane D. Doe" || stored.Notes != "joint account" {
		t.Errorf("update not applied: %+v", stored)
	}
	if stored.Phone != "9876543210" {
		t.Errorf("omitted field lost: phone = %q", stored.Phone)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/accounts/"+id, strings.NewReader(`{"status": "ALLOTTED"}`))
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	if stored.Status != models.StatusAllotted {
		t.Errorf("status = %q, want allotted", stored.Status)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/accounts/"+id, strings.NewReader(`{"status": "SOLD"}`))
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status accepted: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/accounts/no-such-id", strings.NewReader(body))
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.tracker.BulkAdd("1) Jane Doe Upstox\n9876543210\nABCDE1234F")

	body := `{"text": "ABCDE1234F", "markAsAllotted": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/summary", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var resp struct {
		Message          string `json:"message"`
		StatusChanges    int    `json:"statusChanges"`
		SwitchToAllotted bool   `json:"switchToAllotted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.StatusChanges != 1 || !resp.SwitchToAllotted {
		t.Errorf("resp = %+v", resp)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/import", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
