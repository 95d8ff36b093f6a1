package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpath/internal/model"
)

func TestRetrieveCombinesTagsAndSearch(t *testing.T) {
	repo := &fakeKnowledgeRepo{entries: []*model.KnowledgeEntry{
		{ID: "k1", Title: "Reading MBTI types", ModelTag: model.InstrumentMBTI},
		{ID: "k2", Title: "DISC at work", ModelTag: model.InstrumentDISC},
		{ID: "k3", Title: "Company culture fit", ModelTag: "general", Category: "culture"},
	}}
	svc := NewKnowledgeService(repo)

	entries, err := svc.Retrieve(context.Background(),
		[]string{model.InstrumentMBTI, model.InstrumentDISC})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	ids := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	assert.Equal(t, []string{"k1", "k2", "k3"}, ids)
}

func TestRetrieveDeduplicatesByID(t *testing.T) {
	// One entry both carries an instrument tag and matches the
	// supplementary search.
	repo := &fakeKnowledgeRepo{entries: []*model.KnowledgeEntry{
		{ID: "k1", Title: "Values and culture", ModelTag: model.InstrumentValues, Category: "culture"},
	}}
	svc := NewKnowledgeService(repo)

	entries, err := svc.Retrieve(context.Background(), []string{model.InstrumentValues})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	svc := NewKnowledgeService(&fakeKnowledgeRepo{})

	entries, err := svc.Retrieve(context.Background(), model.InstrumentCodes)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRetrievePropagatesTagError(t *testing.T) {
	repo := &fakeKnowledgeRepo{tagErr: errors.New("connection reset")}
	svc := NewKnowledgeService(repo)

	_, err := svc.Retrieve(context.Background(), []string{model.InstrumentMBTI})
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.InstrumentMBTI)
}

func TestRetrievePropagatesSearchError(t *testing.T) {
	repo := &fakeKnowledgeRepo{searchErr: errors.New("connection reset")}
	svc := NewKnowledgeService(repo)

	_, err := svc.Retrieve(context.Background(), nil)
	require.Error(t, err)
}
