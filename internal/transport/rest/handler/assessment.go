package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mindpath/internal/model"
	"mindpath/internal/service"
)

// QuestionCatalog is the read surface the assessment handler needs to
// serve the catalog
type QuestionCatalog interface {
	GetAll(ctx context.Context) ([]*model.Question, error)
}

// AssessmentHandler handles assessment submission and catalog reads
type AssessmentHandler struct {
	intakeSvc *service.IntakeService
	catalog   QuestionCatalog
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(intakeSvc *service.IntakeService, catalog QuestionCatalog) *AssessmentHandler {
	return &AssessmentHandler{intakeSvc: intakeSvc, catalog: catalog}
}

// SubmitAssessmentRequest is the request body for a full submission.
// Answer values stay raw until the intake validator resolves them
// against the catalog question types.
type SubmitAssessmentRequest struct {
	Profile       *model.Profile             `json:"profile"`
	FiveQuestions map[string]json.RawMessage `json:"fiveQuestions"`
	MBTI          map[string]json.RawMessage `json:"mbti"`
	BigFive       map[string]json.RawMessage `json:"bigFive"`
	DISC          map[string]json.RawMessage `json:"disc"`
	Holland       map[string]json.RawMessage `json:"holland"`
	Values        map[string]json.RawMessage `json:"values"`
}

func (req *SubmitAssessmentRequest) toInput() *model.SubmissionInput {
	return &model.SubmissionInput{
		Profile: req.Profile,
		Instruments: map[string]map[string]json.RawMessage{
			model.InstrumentFiveQuestions: req.FiveQuestions,
			model.InstrumentMBTI:          req.MBTI,
			model.InstrumentBigFive:       req.BigFive,
			model.InstrumentDISC:          req.DISC,
			model.InstrumentHolland:       req.Holland,
			model.InstrumentValues:        req.Values,
		},
	}
}

// Submit handles POST /v1/assessments. It returns as soon as the
// submission is persisted; the analysis runs asynchronously and is
// observed through the polling endpoint.
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submissionID, err := h.intakeSvc.Submit(r.Context(), req.toInput())
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":              vErr.Error(),
				"missingInstruments": vErr.Missing,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "assessment received, analysis in progress",
		"submissionId": submissionID,
	})
}

// ListQuestions handles GET /v1/questions, grouped by instrument
func (h *AssessmentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.catalog.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	grouped := make(map[string][]*model.Question)
	for _, q := range questions {
		grouped[q.ModelCode] = append(grouped[q.ModelCode], q)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": grouped})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
