package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slipstream-bet/converter/internal/pkg/agent"
	"github.com/slipstream-bet/converter/internal/pkg/converter"
	"github.com/slipstream-bet/converter/internal/pkg/matching"
	"github.com/slipstream-bet/converter/internal/pkg/pool"
	"github.com/slipstream-bet/converter/internal/pkg/queue"
)

// stubFactory never gets called: these tests exercise the HTTP surface
// without starting workers.
type stubFactory struct{}

func (stubFactory) New(ctx context.Context) (agent.Runner, error) {
	return nil, errors.New("no sessions in tests")
}

func testRouter(queueSize int) http.Handler {
	p := pool.New(pool.Config{MaxInstances: 1}, stubFactory{})
	orch := converter.New(converter.Config{}, p, queue.New(queueSize), matching.DefaultParams(), converter.Options{})
	return New(orch).Router()
}

func TestPing(t *testing.T) {
	router := testRouter(4)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pong") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthListsBookmakers(t *testing.T) {
	router := testRouter(4)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status     string   `json:"status"`
		Bookmakers []string `json:"bookmakers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" || len(body.Bookmakers) == 0 {
		t.Errorf("body = %+v", body)
	}
}

func TestStatus(t *testing.T) {
	router := testRouter(4)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status converter.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.QueueSize != 0 || status.TotalResources != 0 {
		t.Errorf("status = %+v", status)
	}
}

func TestConvertValidation(t *testing.T) {
	router := testRouter(4)
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"not json", "not json at all", http.StatusBadRequest},
		{"bad code", `{"betslip_code": "A", "source_bookmaker": "bet9ja", "destination_bookmaker": "sportybet"}`, http.StatusBadRequest},
		{"unknown bookmaker", `{"betslip_code": "ABC123", "source_bookmaker": "nowhere", "destination_bookmaker": "sportybet"}`, http.StatusBadRequest},
		{"queued", `{"betslip_code": "ABC123", "source_bookmaker": "bet9ja", "destination_bookmaker": "sportybet"}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(tt.body))
		router.ServeHTTP(rec, req)
		if rec.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d (body %q)", tt.name, rec.Code, tt.wantCode, rec.Body.String())
		}
	}
}

func TestConvertQueueFull(t *testing.T) {
	router := testRouter(1)
	body := `{"betslip_code": "ABC123", "source_bookmaker": "bet9ja", "destination_bookmaker": "sportybet"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first submit status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("second submit status = %d, want 503", rec.Code)
	}
}

func TestConvertSyncFlag(t *testing.T) {
	router := testRouter(4)
	body := `{"betslip_code": "ABC123", "source_bookmaker": "bet9ja", "destination_bookmaker": "sportybet"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert?sync=true", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with the full result", rec.Code)
	}

	// The stub factory cannot open sessions, so the synchronous result is a
	// failure, delivered in the response body rather than a task id.
	var result struct {
		Success  bool     `json:"success"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.Success || len(result.Warnings) == 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestResultNotFound(t *testing.T) {
	router := testRouter(4)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/no-such-task", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAcceptedResponseCarriesTaskID(t *testing.T) {
	router := testRouter(4)
	body := `{"betslip_code": "ABC123", "source_bookmaker": "bet9ja", "destination_bookmaker": "sportybet"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp convertAccepted
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.TaskID == "" || resp.Status != "queued" {
		t.Errorf("response = %+v", resp)
	}
}
