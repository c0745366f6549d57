package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/internal/planner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, origins ...string) *Server {
	t.Helper()
	table := holidays.FallbackTable{
		"US": {
			{Date: "2025-07-04", LocalName: "Independence Day", Name: "Independence Day", CountryCode: "US"},
		},
	}
	pl := planner.NewManager(table, optimizer.New(optimizer.DefaultPolicy(), nil), nil)
	return New(Options{Address: ":0", AllowedOrigins: origins}, pl, nil, nil)
}

func do(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID", w.Header().Get(RequestIDHeader))
	}

	w = do(s, http.MethodGet, "/api/health", "", map[string]string{RequestIDHeader: "abc-123"})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestGetHolidays(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path      string
		wantCode  int
		wantCount int
	}{
		{"/api/holidays/us/2025", http.StatusOK, 1},
		{"/api/holidays/GB/2025", http.StatusOK, 0},
		{"/api/holidays/US/next", http.StatusBadRequest, 0},
		{"/api/holidays/US/1800", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(s, http.MethodGet, tt.path, "", nil)
			if w.Code != tt.wantCode {
				t.Fatalf("GET %s status = %d, want %d (%s)", tt.path, w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var hs []holidays.Holiday
			if err := json.Unmarshal(w.Body.Bytes(), &hs); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(hs) != tt.wantCount {
				t.Errorf("GET %s returned %d holidays, want %d", tt.path, len(hs), tt.wantCount)
			}
		})
	}
}

func TestCreatePlan(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/plan",
		`{"year":2025,"totalPTODays":5,"country":"US","companyHolidays":[],"vacationStyle":"balanced"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var plan planner.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res := plan.Result
	if len(res.VacationBlocks) != 2 || res.VacationBlocks[0].StartDate != "2025-07-04" {
		t.Errorf("VacationBlocks = %+v", res.VacationBlocks)
	}
	if res.PTOUsed != 3 || res.Efficiency != 267 {
		t.Errorf("PTOUsed = %d, Efficiency = %d, want 3, 267", res.PTOUsed, res.Efficiency)
	}
	if !strings.Contains(w.Body.String(), `"suggestedPTO"`) || !strings.Contains(w.Body.String(), `"vacationBlocks"`) {
		t.Errorf("response is missing camelCase result fields: %s", w.Body.String())
	}
}

func TestCreatePlanRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"year":`},
		{"negative budget", `{"year":2025,"totalPTODays":-1,"country":"US"}`},
		{"bad country", `{"year":2025,"totalPTODays":5,"country":"USA"}`},
		{"bad style", `{"year":2025,"totalPTODays":5,"country":"US","vacationStyle":"nap"}`},
		{"bad company holiday", `{"year":2025,"totalPTODays":5,"country":"US","companyHolidays":["12/29/2025"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, "/api/plan", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestComparePlans(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/compare",
		`{"year":2025,"totalPTODays":15,"country":"US","left":"long-weekends","right":"week-long"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var cmp planner.Comparison
	if err := json.Unmarshal(w.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmp.Diff == "" {
		t.Error("Diff is empty for different styles")
	}

	w = do(s, http.MethodPost, "/api/compare", `{"year":2025,"totalPTODays":15,"country":"US"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("compare without styles status = %d, want 400", w.Code)
	}
}

func TestExportPlan(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/export",
		`{"year":2025,"totalPTODays":5,"country":"US","companyHolidays":["2025-12-26"]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pto-plan-US-2025.ics") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	doc, err := export.Parse(w.Body)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]bool{"2025-07-07": true, "2025-01-03": true, "2025-01-06": true}
	if len(doc.PTODays) != len(want) {
		t.Fatalf("PTODays = %+v, want %d days", doc.PTODays, len(want))
	}
	for _, d := range doc.PTODays {
		if !want[d.Start] {
			t.Errorf("unexpected PTO day %s", d.Start)
		}
	}
	if len(doc.Holidays) != 1 || len(doc.CompanyHolidays) != 1 {
		t.Errorf("Holidays = %d, CompanyHolidays = %d, want 1 and 1", len(doc.Holidays), len(doc.CompanyHolidays))
	}
}

func TestCORS(t *testing.T) {
	preflight := map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	}

	s := newTestServer(t)
	w := do(s, http.MethodOptions, "/api/plan", "", preflight)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	restricted := newTestServer(t, "http://app.example.org")
	w = do(restricted, http.MethodOptions, "/api/plan", "", preflight)
	if w.Code != http.StatusForbidden {
		t.Errorf("preflight from unknown origin status = %d, want 403", w.Code)
	}
}

func TestRunShutsDown(t *testing.T) {
	s := newTestServer(t)
	s.opts.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
