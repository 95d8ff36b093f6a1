package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mindpath/internal/cache"
	"mindpath/internal/model"
	"mindpath/internal/repository"
)

// Orchestrator runs the post-submission analysis pipeline: retrieve
// knowledge, attempt the AI strategy under a hard timeout, fall back to
// the rule strategy on any failure, and persist exactly one terminal
// result per submission.
type Orchestrator struct {
	submissionRepo repository.SubmissionRepo
	answerRepo     repository.AnswerRepo
	questionRepo   repository.QuestionRepo
	resultRepo     repository.ResultRepo
	knowledge      *KnowledgeService
	aiStrategy     *AIStrategy // nil when no AI client is configured
	ruleStrategy   *RuleStrategy
	resultCache    cache.ResultCache // optional
	aiTimeout      time.Duration
}

// NewOrchestrator creates the analysis orchestrator. aiStrategy may be
// nil; the pipeline then goes straight to the rule-based path.
func NewOrchestrator(
	submissionRepo repository.SubmissionRepo,
	answerRepo repository.AnswerRepo,
	questionRepo repository.QuestionRepo,
	resultRepo repository.ResultRepo,
	knowledge *KnowledgeService,
	aiStrategy *AIStrategy,
	ruleStrategy *RuleStrategy,
	aiTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		questionRepo:   questionRepo,
		resultRepo:     resultRepo,
		knowledge:      knowledge,
		aiStrategy:     aiStrategy,
		ruleStrategy:   ruleStrategy,
		aiTimeout:      aiTimeout,
	}
}

// SetResultCache injects the completed-result cache (wired at the
// composition root; tests usually leave it unset).
func (o *Orchestrator) SetResultCache(c cache.ResultCache) {
	o.resultCache = c
}

// Analyze runs the full pipeline for one submission. Errors before the
// final write leave the submission in "processing"; only a failed final
// write is the genuinely fatal outcome.
func (o *Orchestrator) Analyze(ctx context.Context, submissionID string) error {
	started := time.Now()

	submission, err := o.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}
	if submission == nil {
		return fmt.Errorf("submission %s not found", submissionID)
	}

	answers, err := o.answerRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load answers: %w", err)
	}

	questions, err := o.loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	instrumentCodes := presentInstruments(answers)
	entries, err := o.knowledge.Retrieve(ctx, instrumentCodes)
	if err != nil {
		// Knowledge errors abort this run; the submission stays in
		// "processing", which callers must treat as a degraded state.
		return fmt.Errorf("retrieve knowledge: %w", err)
	}

	outcome := o.runStrategies(ctx, submission, answers, questions, entries)

	result := &model.AnalysisResult{
		ID:                 uuid.NewString(),
		SubmissionID:       submissionID,
		Summary:            outcome.Summary,
		DetailedAnalysis:   outcome.Detailed,
		Recommendations:    outcome.Recommendations,
		ConfidenceScore:    model.Clamp01(outcome.Confidence),
		KnowledgeSourceIDs: knowledgeIDs(entries),
		Method:             outcome.Method,
		ProcessingTimeMs:   time.Since(started).Milliseconds(),
		CreatedAt:          time.Now(),
	}

	if err := o.resultRepo.Create(ctx, result); err != nil {
		if err == repository.ErrDuplicateResult {
			// Concurrent double trigger: the first writer wins.
			log.Printf("orchestrator: result for %s already persisted, ignoring", submissionID)
			return nil
		}
		return fmt.Errorf("persist result: %w", err)
	}

	if o.resultCache != nil {
		if err := o.resultCache.Set(ctx, result); err != nil {
			log.Printf("orchestrator: result cache write failed for %s: %v", submissionID, err)
		}
	}

	log.Printf("orchestrator: submission %s analyzed via %s in %dms",
		submissionID, result.Method, result.ProcessingTimeMs)
	return nil
}

// runStrategies attempts the AI path under the configured timeout and
// falls back to the rule path on any failure. The fallback is single
// and never retried.
func (o *Orchestrator) runStrategies(ctx context.Context, submission *model.Submission, answers []*model.Answer, questions map[string]*model.Question, entries []*model.KnowledgeEntry) *model.AnalysisOutcome {
	if o.aiStrategy != nil {
		aiCtx, cancel := context.WithTimeout(ctx, o.aiTimeout)
		outcome, err := o.aiStrategy.Analyze(aiCtx, &submission.Profile, answers, questions, entries)
		cancel()
		if err == nil {
			return outcome
		}
		log.Printf("orchestrator: ai strategy failed for %s, falling back to rules: %v", submission.ID, err)
	}

	return o.ruleStrategy.Analyze(&submission.Profile, answers, questions, len(entries))
}

func (o *Orchestrator) loadCatalog(ctx context.Context) (map[string]*model.Question, error) {
	all, err := o.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	questions := make(map[string]*model.Question, len(all))
	for _, q := range all {
		questions[q.ID] = q
	}
	return questions, nil
}

func presentInstruments(answers []*model.Answer) []string {
	present := make(map[string]bool)
	for _, a := range answers {
		present[a.ModelCode] = true
	}

	var codes []string
	for _, code := range model.InstrumentCodes {
		if present[code] {
			codes = append(codes, code)
		}
	}
	return codes
}

func knowledgeIDs(entries []*model.KnowledgeEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
