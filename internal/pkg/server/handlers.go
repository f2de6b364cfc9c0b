package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	"github.com/slipstream-bet/converter/internal/pkg/converter"
)

type convertRequest struct {
	BetslipCode          string `json:"betslip_code"`
	SourceBookmaker      string `json:"source_bookmaker"`
	DestinationBookmaker string `json:"destination_bookmaker"`
	// Sync requests block until the conversion finishes instead of
	// returning a task id to poll.
	Sync bool `json:"sync"`
}

type convertAccepted struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"bookmakers": bookmakers.SupportedIDs(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Status())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if r.URL.Query().Get("sync") == "true" {
		req.Sync = true
	}
	if req.Sync {
		result := s.orch.ConvertSync(r.Context(), req.BetslipCode, req.SourceBookmaker, req.DestinationBookmaker)
		writeJSON(w, http.StatusOK, result)
		return
	}

	taskID, err := s.orch.Submit(req.BetslipCode, req.SourceBookmaker, req.DestinationBookmaker)
	if err != nil {
		if errors.Is(err, converter.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, convertAccepted{TaskID: taskID, Status: "queued"})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	result, ok := s.orch.PollResult(r.Context(), taskID)
	if !ok {
		writeError(w, http.StatusNotFound, "result not found or still processing")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
