package service

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregation(store *docstore.MemoryStore) *AggregationService {
	users := repository.NewUserRepository(store, 100)
	return NewAggregationService(
		repository.NewStudentRepository(store, 100),
		repository.NewFeedbackRepository(store, 100),
		repository.NewAIItemRepository(store, 100),
		repository.NewReviewRepository(store, 100),
		repository.NewStandardRepository(store, nil, 100),
		NewIdentityService(users),
	)
}

func mustCreate(t *testing.T, store *docstore.MemoryStore, collection string, doc any) {
	t.Helper()
	_, err := store.Create(context.Background(), collection, doc)
	require.NoError(t, err)
}

func seedAggregationFixture(t *testing.T, store *docstore.MemoryStore) []model.PreceptorFeedback {
	t.Helper()
	seedUser(t, store, "u-1", "Dana Wu", model.Preceptor)

	now := time.Now().Truncate(time.Millisecond)
	feedback := []model.PreceptorFeedback{
		{ID: "fb-1", StudentDocumentID: "st-1", PreceptorID: "u-1", FeedbackText: "good", CreatedAt: now},
		{ID: "fb-2", StudentDocumentID: "st-1", PreceptorID: "u-gone", FeedbackText: "late", CreatedAt: now},
	}
	for i := range feedback {
		mustCreate(t, store, model.CollPreceptorFeedback, &feedback[i])
	}

	mustCreate(t, store, model.CollAIFeedbackItems, &model.AIFeedbackItem{
		ID: "it-1", PreceptorFeedbackDocumentID: "fb-1", ItemID: "1.1", IsPositive: true,
	})
	mustCreate(t, store, model.CollAIFeedbackItems, &model.AIFeedbackItem{
		ID: "it-2", PreceptorFeedbackDocumentID: "fb-1", ItemID: "9.9", IsPositive: false,
	})
	mustCreate(t, store, model.CollAssessmentStandards, &model.AssessmentStandard{
		ID: "std-1", ItemID: "1.1", Description: "Communicates effectively",
	})
	mustCreate(t, store, model.CollFacilitatorReviews, &model.FacilitatorReview{
		ID: "rv-1", PreceptorFeedbackDocumentID: "fb-1", FacilitatorID: "u-9", Comment: "agreed", CreatedAt: now,
	})
	mustCreate(t, store, model.CollReviewScores, &model.ReviewScore{
		ID: "sc-1", FacilitatorReviewDocumentID: "rv-1", ItemID: "1.1", Score: "4",
	})

	return feedback
}

func TestEnrichFeedbackFullTree(t *testing.T) {
	store := docstore.NewMemoryStore()
	feedback := seedAggregationFixture(t, store)

	result, err := newAggregation(store).EnrichFeedback(context.Background(), feedback)
	require.NoError(t, err)
	require.Len(t, result, 2)

	first := result[0]
	assert.Equal(t, "Dana Wu", first.PreceptorName)
	require.Len(t, first.AIFeedbackItems, 2)
	assert.Equal(t, "Communicates effectively", first.AIFeedbackItems[0].ItemDetails.Description)
	assert.Equal(t, model.DescriptionNotFound, first.AIFeedbackItems[1].ItemDetails.Description)
	require.NotNil(t, first.Review)
	require.Len(t, first.Review.ReviewScores, 1)
	assert.Equal(t, "4", first.Review.ReviewScores[0].Score)

	second := result[1]
	assert.Equal(t, UnknownUserName, second.PreceptorName)
	assert.Empty(t, second.AIFeedbackItems)
	assert.Nil(t, second.Review)
}

// 底层数据不变时，两次聚合的序列化结果必须逐字节一致。
func TestEnrichFeedbackIsDeterministic(t *testing.T) {
	store := docstore.NewMemoryStore()
	feedback := seedAggregationFixture(t, store)
	svc := newAggregation(store)
	ctx := context.Background()

	first, err := svc.EnrichFeedback(ctx, feedback)
	require.NoError(t, err)
	second, err := svc.EnrichFeedback(ctx, feedback)
	require.NoError(t, err)

	rawFirst, err := json.Marshal(first)
	require.NoError(t, err)
	rawSecond, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(rawFirst), string(rawSecond))
}

func TestEnrichFeedbackEmptyInputSkipsAllReads(t *testing.T) {
	store := docstore.NewMemoryStore()

	result, err := newAggregation(store).EnrichFeedback(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Equal(t, 0, store.Calls("list", model.CollAIFeedbackItems))
	assert.Equal(t, 0, store.Calls("list", model.CollAssessmentStandards))
}

func TestStudentTreesGroupsByStudent(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedAggregationFixture(t, store)

	students := []model.Student{
		{ID: "st-1", FirstName: "Ana", LastName: "Reyes", StudentNumber: "S100"},
		{ID: "st-2", FirstName: "Ben", LastName: "Okafor", StudentNumber: "S200"},
	}
	for i := range students {
		mustCreate(t, store, model.CollStudents, &students[i])
	}

	trees, err := newAggregation(store).StudentTrees(context.Background(), students)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Len(t, trees[0].PreceptorFeedbackList, 2)
	assert.Empty(t, trees[1].PreceptorFeedbackList)
}

func TestFeedbackTreesWithStudentsAttachesSummary(t *testing.T) {
	store := docstore.NewMemoryStore()
	feedback := seedAggregationFixture(t, store)
	mustCreate(t, store, model.CollStudents, &model.Student{
		ID: "st-1", FirstName: "Ana", LastName: "Reyes", StudentNumber: "S100",
	})

	rows, err := newAggregation(store).FeedbackTreesWithStudents(context.Background(), feedback)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Reyes", rows[0].StudentName)
	assert.Equal(t, "S100", rows[0].StudentNumber)
}
