package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindpath/internal/model"
	"mindpath/internal/repository"
)

// ValidationError reports every missing group of a submission at once
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required assessment sections: " + strings.Join(e.Missing, ", ")
}

// Notifier nudges the analysis worker after a task is enqueued. The
// nudge is best-effort; the worker's own ticker picks up anything the
// nudge misses.
type Notifier interface {
	Notify()
}

// IntakeService validates and persists a complete assessment
// submission, then schedules the analysis without awaiting it.
type IntakeService struct {
	questionRepo   repository.QuestionRepo
	submissionRepo repository.SubmissionRepo
	answerRepo     repository.AnswerRepo
	outboxRepo     repository.OutboxRepo
	notifier       Notifier
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	questionRepo repository.QuestionRepo,
	submissionRepo repository.SubmissionRepo,
	answerRepo repository.AnswerRepo,
	outboxRepo repository.OutboxRepo,
) *IntakeService {
	return &IntakeService{
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		outboxRepo:     outboxRepo,
	}
}

// SetNotifier injects the worker nudge (wired at the composition root)
func (s *IntakeService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Submit validates completeness, resolves answers against the catalog,
// persists the submission with its answers and outbox task, and
// returns the submission ID. The analysis itself runs asynchronously.
func (s *IntakeService) Submit(ctx context.Context, input *model.SubmissionInput) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}

	submission := &model.Submission{
		ID:          uuid.NewString(),
		Profile:     *input.Profile,
		SubmittedAt: time.Now(),
	}

	answers, err := s.resolveAnswers(ctx, submission.ID, input)
	if err != nil {
		return "", err
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return "", fmt.Errorf("persist submission: %w", err)
	}
	if err := s.answerRepo.CreateMany(ctx, answers); err != nil {
		return "", fmt.Errorf("persist answers: %w", err)
	}
	if err := s.outboxRepo.Enqueue(ctx, submission.ID); err != nil {
		return "", fmt.Errorf("enqueue analysis task: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify()
	}

	return submission.ID, nil
}

// validateInput rejects with an itemized list naming every missing
// group. There is no partial acceptance.
func validateInput(input *model.SubmissionInput) error {
	var missing []string
	if input.Profile == nil {
		missing = append(missing, "profile")
	}
	for _, code := range model.InstrumentCodes {
		if len(input.Instruments[code]) == 0 {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// resolveAnswers walks the catalog per instrument, decoding each
// provided value against the owning question's type. Unanswered
// sorting questions default to the identity order; other unanswered
// questions are skipped; unknown codes are logged and ignored.
func (s *IntakeService) resolveAnswers(ctx context.Context, submissionID string, input *model.SubmissionInput) ([]*model.Answer, error) {
	var answers []*model.Answer

	for _, code := range model.InstrumentCodes {
		catalog, err := s.questionRepo.GetByModel(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("load %s catalog: %w", code, err)
		}

		provided := input.Instruments[code]
		known := make(map[string]bool, len(catalog))

		for _, q := range catalog {
			known[q.Code] = true
			raw, ok := provided[q.Code]
			if !ok {
				if q.Type == model.QuestionTypeSorting {
					answers = append(answers, &model.Answer{
						SubmissionID: submissionID,
						QuestionID:   q.ID,
						QuestionCode: q.Code,
						ModelCode:    code,
						Value: model.AnswerValue{
							Type:  model.QuestionTypeSorting,
							Order: model.IdentityOrder(len(q.Options)),
						},
					})
				}
				continue
			}

			value, err := decodeAnswerValue(q, raw)
			if err != nil {
				return nil, fmt.Errorf("answer %s: %w", q.Code, err)
			}
			answers = append(answers, &model.Answer{
				SubmissionID: submissionID,
				QuestionID:   q.ID,
				QuestionCode: q.Code,
				ModelCode:    code,
				Value:        value,
			})
		}

		for qCode := range provided {
			if !known[qCode] {
				log.Printf("intake: ignoring unknown question code %q for %s", qCode, code)
			}
		}
	}

	return answers, nil
}

// decodeAnswerValue interprets the raw JSON value per the question type
func decodeAnswerValue(q *model.Question, raw json.RawMessage) (model.AnswerValue, error) {
	value := model.AnswerValue{Type: q.Type}

	switch q.Type {
	case model.QuestionTypeSingle:
		if err := json.Unmarshal(raw, &value.Option); err != nil {
			return value, fmt.Errorf("expected option code string: %w", err)
		}
	case model.QuestionTypeMultiple:
		if err := json.Unmarshal(raw, &value.Options); err != nil {
			return value, fmt.Errorf("expected option code array: %w", err)
		}
	case model.QuestionTypeScale:
		if err := json.Unmarshal(raw, &value.Scale); err != nil {
			return value, fmt.Errorf("expected numeric rating: %w", err)
		}
	case model.QuestionTypeText:
		if err := json.Unmarshal(raw, &value.Text); err != nil {
			return value, fmt.Errorf("expected text: %w", err)
		}
	case model.QuestionTypeSorting:
		var wrapper struct {
			Order []int `json:"order"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return value, fmt.Errorf("expected {\"order\": [...]}: %w", err)
		}
		if !isTotalOrder(wrapper.Order, len(q.Options)) {
			return value, fmt.Errorf("order must be a permutation of 1..%d", len(q.Options))
		}
		value.Order = wrapper.Order
	default:
		return value, fmt.Errorf("unsupported question type %q", q.Type)
	}

	return value, nil
}

// isTotalOrder checks that order is a permutation of 1..n
func isTotalOrder(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, rank := range order {
		if rank < 1 || rank > n || seen[rank] {
			return false
		}
		seen[rank] = true
	}
	return true
}
