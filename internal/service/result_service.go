package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"mindpath/internal/cache"
	"mindpath/internal/model"
	"mindpath/internal/repository"
)

// Poll statuses, in resolution priority order
const (
	PollCompleted  = "completed"
	PollProcessing = "processing"
	PollNotFound   = "not_found"
)

// AnalysisPoll is the resolved state of one poll
type AnalysisPoll struct {
	Status         string
	Result         *model.AnalysisResult
	ElapsedMinutes int
}

// ResultService resolves the three poll states: a persisted result
// means completed, a submission without a result means processing, and
// no submission at all is not found. The classes are never conflated.
type ResultService struct {
	resultRepo     repository.ResultRepo
	submissionRepo repository.SubmissionRepo
	resultCache    cache.ResultCache // optional fast path
}

// NewResultService creates a new result poller
func NewResultService(resultRepo repository.ResultRepo, submissionRepo repository.SubmissionRepo) *ResultService {
	return &ResultService{
		resultRepo:     resultRepo,
		submissionRepo: submissionRepo,
	}
}

// SetResultCache injects the completed-result cache
func (s *ResultService) SetResultCache(c cache.ResultCache) {
	s.resultCache = c
}

// Poll resolves the analysis state for a submission
func (s *ResultService) Poll(ctx context.Context, submissionID string) (*AnalysisPoll, error) {
	if s.resultCache != nil {
		cached, err := s.resultCache.Get(ctx, submissionID)
		if err != nil {
			// A cache failure degrades to the datastore read.
			log.Printf("result poll: cache read failed for %s: %v", submissionID, err)
		} else if cached != nil {
			return &AnalysisPoll{Status: PollCompleted, Result: cached}, nil
		}
	}

	result, err := s.resultRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	if result != nil {
		if s.resultCache != nil {
			if err := s.resultCache.Set(ctx, result); err != nil {
				log.Printf("result poll: cache fill failed for %s: %v", submissionID, err)
			}
		}
		return &AnalysisPoll{Status: PollCompleted, Result: result}, nil
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if submission != nil {
		elapsed := int(time.Since(submission.SubmittedAt).Minutes())
		return &AnalysisPoll{Status: PollProcessing, ElapsedMinutes: elapsed}, nil
	}

	return &AnalysisPoll{Status: PollNotFound}, nil
}
