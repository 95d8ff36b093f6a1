package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"mindpath/internal/service"
)

// ResultHandler serves the analysis polling endpoint
type ResultHandler struct {
	resultSvc *service.ResultService
}

// NewResultHandler creates a new result handler
func NewResultHandler(resultSvc *service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// Poll handles GET /v1/assessments/{submissionId}/analysis.
// The three states are distinct: a missing submission is 404, a
// submission still awaiting analysis reports processing with elapsed
// time, and a persisted result is returned in full.
func (h *ResultHandler) Poll(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	poll, err := h.resultSvc.Poll(r.Context(), submissionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch poll.Status {
	case service.PollCompleted:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"status":   service.PollCompleted,
				"analysis": poll.Result,
			},
		})
	case service.PollProcessing:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"status":              service.PollProcessing,
				"message":             "analysis is still being generated",
				"elapsedTime":         fmt.Sprintf("%d minutes", poll.ElapsedMinutes),
				"estimatedCompletion": "1-2 minutes",
			},
		})
	default:
		writeError(w, http.StatusNotFound, "user not found")
	}
}
