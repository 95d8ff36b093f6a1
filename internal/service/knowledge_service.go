package service

import (
	"context"
	"fmt"

	"mindpath/internal/model"
	"mindpath/internal/repository"
)

// cultureQuery is the fixed supplementary search every retrieval runs
// in addition to the per-instrument tag lookups.
const cultureQuery = "culture"

// KnowledgeService assembles the contextual knowledge for one
// submission. Read-only; errors propagate to the caller.
type KnowledgeService struct {
	knowledgeRepo repository.KnowledgeRepo
}

// NewKnowledgeService creates a new knowledge retriever
func NewKnowledgeService(knowledgeRepo repository.KnowledgeRepo) *KnowledgeService {
	return &KnowledgeService{knowledgeRepo: knowledgeRepo}
}

// Retrieve collects entries tagged with each present instrument plus
// the supplementary culture/values search, deduplicated by entry ID.
func (s *KnowledgeService) Retrieve(ctx context.Context, instrumentCodes []string) ([]*model.KnowledgeEntry, error) {
	seen := make(map[string]bool)
	var entries []*model.KnowledgeEntry

	add := func(batch []*model.KnowledgeEntry) {
		for _, entry := range batch {
			if seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true
			entries = append(entries, entry)
		}
	}

	for _, code := range instrumentCodes {
		batch, err := s.knowledgeRepo.GetByModelTag(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("knowledge lookup for %s: %w", code, err)
		}
		add(batch)
	}

	supplementary, err := s.knowledgeRepo.Search(ctx, cultureQuery)
	if err != nil {
		return nil, fmt.Errorf("supplementary knowledge search: %w", err)
	}
	add(supplementary)

	return entries, nil
}
