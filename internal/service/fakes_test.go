package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindpath/internal/model"
	"mindpath/internal/repository"
)

// In-memory fakes for the repository interfaces, shared across the
// service tests.

type fakeQuestionRepo struct {
	questions []*model.Question
	err       error
}

func (f *fakeQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	f.questions = append(f.questions, q)
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionRepo) GetByModel(ctx context.Context, modelCode string) ([]*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Question
	for _, q := range f.questions {
		if q.ModelCode == modelCode {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) GetAll(ctx context.Context) ([]*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: make(map[string]*model.Submission)}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[s.ID] = s
	return nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[id], nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers []*model.Answer
}

func (f *fakeAnswerRepo) CreateMany(ctx context.Context, answers []*model.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answers...)
	return nil
}

func (f *fakeAnswerRepo) GetBySubmissionID(ctx context.Context, submissionID string) ([]*model.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Answer
	for _, a := range f.answers {
		if a.SubmissionID == submissionID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeKnowledgeRepo struct {
	entries   []*model.KnowledgeEntry
	tagErr    error
	searchErr error
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, e *model.KnowledgeEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeKnowledgeRepo) GetByModelTag(ctx context.Context, tag string) ([]*model.KnowledgeEntry, error) {
	if f.tagErr != nil {
		return nil, f.tagErr
	}
	var out []*model.KnowledgeEntry
	for _, e := range f.entries {
		if e.ModelTag == tag {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) Search(ctx context.Context, query string) ([]*model.KnowledgeEntry, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []*model.KnowledgeEntry
	for _, e := range f.entries {
		if e.Category == "culture" {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results map[string]*model.AnalysisResult
	err     error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[string]*model.AnalysisResult)}
}

func (f *fakeResultRepo) Create(ctx context.Context, r *model.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, exists := f.results[r.SubmissionID]; exists {
		return repository.ErrDuplicateResult
	}
	f.results[r.SubmissionID] = r
	return nil
}

func (f *fakeResultRepo) GetBySubmissionID(ctx context.Context, submissionID string) (*model.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[submissionID], nil
}

func (f *fakeResultRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeResultRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type fakeOutboxRepo struct {
	mu    sync.Mutex
	tasks []*model.AnalysisTask
}

func (f *fakeOutboxRepo) Enqueue(ctx context.Context, submissionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.SubmissionID == submissionID {
			return nil
		}
	}
	f.tasks = append(f.tasks, &model.AnalysisTask{
		ID:           fmt.Sprintf("task-%d", len(f.tasks)+1),
		SubmissionID: submissionID,
		Status:       model.TaskPending,
		CreatedAt:    time.Now(),
	})
	return nil
}

func (f *fakeOutboxRepo) ClaimNextPending(ctx context.Context) (*model.AnalysisTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.Status == model.TaskPending {
			t.Status = model.TaskRunning
			t.Attempts++
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeOutboxRepo) MarkDone(ctx context.Context, taskID string) error {
	return f.setStatus(taskID, model.TaskDone)
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, taskID string, reason string) error {
	return f.setStatus(taskID, model.TaskFailed)
}

func (f *fakeOutboxRepo) setStatus(taskID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == taskID {
			t.Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeOutboxRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeAIClient returns a canned response, optionally after a delay or
// with an error.
type fakeAIClient struct {
	response string
	err      error
	delay    time.Duration
	pingErr  error
}

func (c *fakeAIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeAIClient) Ping(ctx context.Context) error {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.pingErr
}

// testCatalog builds a compact six-instrument catalog with one or more
// questions per instrument, indexed by question ID.
func testCatalog() ([]*model.Question, map[string]*model.Question) {
	questions := []*model.Question{
		{ID: "q_fq_1", ModelCode: model.InstrumentFiveQuestions, Code: "fq_1",
			Text: "What kind of work makes you lose track of time?", Type: model.QuestionTypeText, SortOrder: 1},

		{ID: "q_mbti_ei", ModelCode: model.InstrumentMBTI, Code: "mbti_1", Dimension: "EI",
			Text: "After a long week, you recharge by...", Type: model.QuestionTypeSingle, SortOrder: 2,
			Options: []model.Option{
				{Code: "a", Label: "Going out with friends", Trait: "E"},
				{Code: "b", Label: "Spending time alone", Trait: "I"},
			}},
		{ID: "q_mbti_sn", ModelCode: model.InstrumentMBTI, Code: "mbti_2", Dimension: "SN",
			Text: "When solving a problem you trust...", Type: model.QuestionTypeSingle, SortOrder: 3,
			Options: []model.Option{
				{Code: "a", Label: "Concrete facts", Trait: "S"},
				{Code: "b", Label: "Patterns and possibilities", Trait: "N"},
			}},
		{ID: "q_mbti_tf", ModelCode: model.InstrumentMBTI, Code: "mbti_3", Dimension: "TF",
			Text: "Hard decisions should rest on...", Type: model.QuestionTypeSingle, SortOrder: 4,
			Options: []model.Option{
				{Code: "a", Label: "Objective analysis", Trait: "T"},
				{Code: "b", Label: "Impact on people", Trait: "F"},
			}},
		{ID: "q_mbti_jp", ModelCode: model.InstrumentMBTI, Code: "mbti_4", Dimension: "JP",
			Text: "Your ideal project has...", Type: model.QuestionTypeSingle, SortOrder: 5,
			Options: []model.Option{
				{Code: "a", Label: "A clear plan", Trait: "J"},
				{Code: "b", Label: "Room to improvise", Trait: "P"},
			}},

		{ID: "q_bf_open", ModelCode: model.InstrumentBigFive, Code: "bf_1", Dimension: "openness",
			Text: "I enjoy exploring unfamiliar ideas.", Type: model.QuestionTypeScale, SortOrder: 6},
		{ID: "q_bf_consc_rev", ModelCode: model.InstrumentBigFive, Code: "bf_2", Dimension: "conscientiousness",
			Reverse: true,
			Text:    "I often leave loose ends in my work.", Type: model.QuestionTypeScale, SortOrder: 7},

		{ID: "q_disc_1", ModelCode: model.InstrumentDISC, Code: "disc_1",
			Text: "When a project stalls, my instinct is to...", Type: model.QuestionTypeSingle, SortOrder: 8,
			Options: []model.Option{
				{Code: "o1", Label: "Take charge", Trait: "D"},
				{Code: "o2", Label: "Rally people", Trait: "I"},
				{Code: "o3", Label: "Keep everyone steady", Trait: "S"},
				{Code: "o4", Label: "Re-check the details", Trait: "C"},
			}},

		{ID: "q_holland_1", ModelCode: model.InstrumentHolland, Code: "holland_1",
			Text: "Which activities appeal to you?", Type: model.QuestionTypeMultiple, SortOrder: 9,
			Options: []model.Option{
				{Code: "o1", Label: "Building things", Trait: "R"},
				{Code: "o2", Label: "Running experiments", Trait: "I"},
				{Code: "o3", Label: "Designing visuals", Trait: "A"},
				{Code: "o4", Label: "Teaching others", Trait: "S"},
				{Code: "o5", Label: "Pitching ideas", Trait: "E"},
				{Code: "o6", Label: "Organizing records", Trait: "C"},
			}},

		{ID: "q_values_multi", ModelCode: model.InstrumentValues, Code: "values_1",
			Text: "Which of these matter most to you in a job?", Type: model.QuestionTypeMultiple, SortOrder: 10,
			Options: []model.Option{
				{Code: "v1", Label: "Job security", Score: 1},
				{Code: "v3", Label: "Close-knit team", Score: 3},
				{Code: "v5", Label: "Recognition for results", Score: 5},
				{Code: "v8", Label: "Independent decision-making", Score: 8},
				{Code: "v10", Label: "Room to experiment", Score: 10},
			}},
		{ID: "q_values_sort", ModelCode: model.InstrumentValues, Code: "values_2",
			Text: "Rank these rewards from most to least important.", Type: model.QuestionTypeSorting, SortOrder: 11,
			Options: []model.Option{
				{Code: "r1", Label: "A stable long-term contract", Score: 2},
				{Code: "r2", Label: "A supportive team culture", Score: 4},
				{Code: "r3", Label: "A performance bonus", Score: 6},
				{Code: "r4", Label: "Freedom over how you work", Score: 8},
				{Code: "r5", Label: "A development budget", Score: 10},
			}},
	}

	byID := make(map[string]*model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return questions, byID
}

// fullAnswerSet answers every catalog question, covering all five
// answer types across all six instruments.
func fullAnswerSet(submissionID string) []*model.Answer {
	mk := func(qid, code, modelCode string, value model.AnswerValue) *model.Answer {
		return &model.Answer{
			SubmissionID: submissionID,
			QuestionID:   qid,
			QuestionCode: code,
			ModelCode:    modelCode,
			Value:        value,
		}
	}

	return []*model.Answer{
		mk("q_fq_1", "fq_1", model.InstrumentFiveQuestions,
			model.AnswerValue{Type: model.QuestionTypeText, Text: "Debugging distributed systems."}),
		mk("q_mbti_ei", "mbti_1", model.InstrumentMBTI,
			model.AnswerValue{Type: model.QuestionTypeSingle, Option: "a"}), // E
		mk("q_mbti_sn", "mbti_2", model.InstrumentMBTI,
			model.AnswerValue{Type: model.QuestionTypeSingle, Option: "b"}), // N
		mk("q_mbti_tf", "mbti_3", model.InstrumentMBTI,
			model.AnswerValue{Type: model.QuestionTypeSingle, Option: "a"}), // T
		mk("q_mbti_jp", "mbti_4", model.InstrumentMBTI,
			model.AnswerValue{Type: model.QuestionTypeSingle, Option: "a"}), // J
		mk("q_bf_open", "bf_1", model.InstrumentBigFive,
			model.AnswerValue{Type: model.QuestionTypeScale, Scale: 5}),
		mk("q_bf_consc_rev", "bf_2", model.InstrumentBigFive,
			model.AnswerValue{Type: model.QuestionTypeScale, Scale: 1}),
		mk("q_disc_1", "disc_1", model.InstrumentDISC,
			model.AnswerValue{Type: model.QuestionTypeSingle, Option: "o1"}), // D
		mk("q_holland_1", "holland_1", model.InstrumentHolland,
			model.AnswerValue{Type: model.QuestionTypeMultiple, Options: []string{"o1", "o2"}}), // R, I
		mk("q_values_multi", "values_1", model.InstrumentValues,
			model.AnswerValue{Type: model.QuestionTypeMultiple, Options: []string{"v10", "v8"}}),
		mk("q_values_sort", "values_2", model.InstrumentValues,
			model.AnswerValue{Type: model.QuestionTypeSorting, Order: []int{1, 2, 3, 4, 5}}),
	}
}

func cultureEntries(n int) []*model.KnowledgeEntry {
	entries := make([]*model.KnowledgeEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, &model.KnowledgeEntry{
			ID:       fmt.Sprintf("k%d", i+1),
			Title:    fmt.Sprintf("Entry %d", i+1),
			Content:  "Reference content.",
			ModelTag: "general",
			Category: "culture",
		})
	}
	return entries
}
