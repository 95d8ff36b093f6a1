package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpath/internal/model"
)

func newTestOrchestrator(t *testing.T, ai *fakeAIClient, aiTimeout time.Duration, knowledge *fakeKnowledgeRepo) (*Orchestrator, *fakeResultRepo) {
	t.Helper()

	questions, _ := testCatalog()
	questionRepo := &fakeQuestionRepo{questions: questions}

	submissionRepo := newFakeSubmissionRepo()
	require.NoError(t, submissionRepo.Create(context.Background(), &model.Submission{
		ID:          "sub-1",
		Profile:     model.Profile{Name: "Jordan", Age: 28},
		SubmittedAt: time.Now(),
	}))

	answerRepo := &fakeAnswerRepo{}
	require.NoError(t, answerRepo.CreateMany(context.Background(), fullAnswerSet("sub-1")))

	if knowledge == nil {
		knowledge = &fakeKnowledgeRepo{}
	}
	resultRepo := newFakeResultRepo()

	rule := NewRuleStrategy()
	var aiStrategy *AIStrategy
	if ai != nil {
		aiStrategy = NewAIStrategy(ai, rule)
	}

	orchestrator := NewOrchestrator(
		submissionRepo, answerRepo, questionRepo, resultRepo,
		NewKnowledgeService(knowledge), aiStrategy, rule, aiTimeout,
	)
	return orchestrator, resultRepo
}

func TestOrchestratorRuleOnlyPath(t *testing.T) {
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, err := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodRule, result.Method)
	assert.Equal(t, 1.0, result.ConfidenceScore)
	assert.NotEmpty(t, result.Summary)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(0))
}

func TestOrchestratorAIPath(t *testing.T) {
	ai := &fakeAIClient{
		response: `{"summary":"A decisive builder.","detailed_analysis":"Long narrative.","recommendations":["Lead a small team."],"confidence_score":0.9}`,
	}
	orchestrator, resultRepo := newTestOrchestrator(t, ai, time.Second, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, err := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodAI, result.Method)
	assert.Equal(t, "A decisive builder.", result.Summary)
	assert.Equal(t, 0.9, result.ConfidenceScore)
	assert.Equal(t, "Long narrative.", result.DetailedAnalysis.Narrative)
	// Structured sections still come from the rule scorers.
	require.NotNil(t, result.DetailedAnalysis.MBTI)
	assert.Equal(t, "ENTJ", result.DetailedAnalysis.MBTI.Type)
}

func TestOrchestratorTimeoutFallsBackToRules(t *testing.T) {
	ai := &fakeAIClient{
		response: `{"summary":"too late"}`,
		delay:    500 * time.Millisecond,
	}
	orchestrator, resultRepo := newTestOrchestrator(t, ai, 50*time.Millisecond, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, err := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodRule, result.Method, "a timed-out AI call must never produce an ai result")
}

func TestOrchestratorTransportErrorFallsBackToRules(t *testing.T) {
	ai := &fakeAIClient{err: errors.New("connection refused")}
	orchestrator, resultRepo := newTestOrchestrator(t, ai, time.Second, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, _ := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NotNil(t, result)
	assert.Equal(t, model.MethodRule, result.Method)
}

func TestOrchestratorMalformedPayloadFallsBackToRules(t *testing.T) {
	ai := &fakeAIClient{response: "this is not json"}
	orchestrator, resultRepo := newTestOrchestrator(t, ai, time.Second, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, _ := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NotNil(t, result)
	assert.Equal(t, model.MethodRule, result.Method)
}

func TestOrchestratorDoubleTriggerWritesOneResult(t *testing.T) {
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, nil)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))
	// A second trigger for the same submission is ignored, not an error.
	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	assert.Equal(t, 1, resultRepo.count())
}

func TestOrchestratorKnowledgeErrorAbortsRun(t *testing.T) {
	knowledge := &fakeKnowledgeRepo{tagErr: errors.New("datastore unavailable")}
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, knowledge)

	err := orchestrator.Analyze(context.Background(), "sub-1")
	require.Error(t, err)
	// The submission stays without a result: the degraded state the
	// poller reports as processing.
	assert.Equal(t, 0, resultRepo.count())
}

func TestOrchestratorRichKnowledgeRaisesConfidence(t *testing.T) {
	knowledge := &fakeKnowledgeRepo{entries: cultureEntries(11)}
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, knowledge)

	require.NoError(t, orchestrator.Analyze(context.Background(), "sub-1"))

	result, _ := resultRepo.GetBySubmissionID(context.Background(), "sub-1")
	require.NotNil(t, result)
	assert.Len(t, result.KnowledgeSourceIDs, 11)
	assert.Equal(t, 1.0, result.ConfidenceScore)
}

func TestOutboxWorkerDrainsQueue(t *testing.T) {
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, nil)

	outbox := &fakeOutboxRepo{}
	require.NoError(t, outbox.Enqueue(context.Background(), "sub-1"))

	worker := NewOutboxWorker(outbox, orchestrator, time.Minute)
	worker.drain(context.Background())

	assert.Equal(t, 1, resultRepo.count())
	assert.Equal(t, model.TaskDone, outbox.tasks[0].Status)
}

func TestOutboxWorkerMarksFailedTask(t *testing.T) {
	orchestrator, resultRepo := newTestOrchestrator(t, nil, time.Second, nil)

	outbox := &fakeOutboxRepo{}
	require.NoError(t, outbox.Enqueue(context.Background(), "missing-submission"))

	worker := NewOutboxWorker(outbox, orchestrator, time.Minute)
	worker.drain(context.Background())

	assert.Equal(t, 0, resultRepo.count())
	assert.Equal(t, model.TaskFailed, outbox.tasks[0].Status)
	assert.Equal(t, 1, outbox.tasks[0].Attempts)
}

func TestOutboxWorkerNotifyDoesNotBlock(t *testing.T) {
	orchestrator, _ := newTestOrchestrator(t, nil, time.Second, nil)
	worker := NewOutboxWorker(&fakeOutboxRepo{}, orchestrator, time.Minute)

	// Repeated nudges without a running worker must not block.
	for i := 0; i < 5; i++ {
		worker.Notify()
	}
}
