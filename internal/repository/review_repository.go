package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"fmt"
	"time"
)

type ReviewRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewReviewRepository(store docstore.Client, pageSize int) *ReviewRepository {
	return &ReviewRepository{Store: store, PageSize: pageSize}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.FacilitatorReview) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	id, err := r.Store.Create(ctx, model.CollFacilitatorReviews, review)
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

// FindByFeedbackID 用于写入前的唯一性校验。
func (r *ReviewRepository) FindByFeedbackID(ctx context.Context, feedbackID string) (*model.FacilitatorReview, error) {
	var reviews []model.FacilitatorReview
	q := docstore.Query{Filter: docstore.Eq("preceptor_feedback_document_id", feedbackID), Limit: 1}
	if err := r.Store.List(ctx, model.CollFacilitatorReviews, q, &reviews); err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, docstore.ErrNotFound
	}
	return &reviews[0], nil
}

func (r *ReviewRepository) ListByFeedbackIDs(ctx context.Context, feedbackIDs []string) ([]model.FacilitatorReview, error) {
	return docstore.ListAllIn[model.FacilitatorReview](ctx, r.Store, model.CollFacilitatorReviews,
		"preceptor_feedback_document_id", feedbackIDs, docstore.Order{}, r.PageSize)
}

func (r *ReviewRepository) CreateScores(ctx context.Context, scores []model.ReviewScore) error {
	for i := range scores {
		id, err := r.Store.Create(ctx, model.CollReviewScores, &scores[i])
		if err != nil {
			return fmt.Errorf("create review score %d of %d: %w", i+1, len(scores), err)
		}
		scores[i].ID = id
	}
	return nil
}

func (r *ReviewRepository) ListScoresByReviewIDs(ctx context.Context, reviewIDs []string) ([]model.ReviewScore, error) {
	return docstore.ListAllIn[model.ReviewScore](ctx, r.Store, model.CollReviewScores,
		"facilitator_review_document_id", reviewIDs, docstore.Order{}, r.PageSize)
}
