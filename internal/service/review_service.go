package service

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"errors"
	"strings"
	"time"
)

type ReviewService struct {
	Reviews  *repository.ReviewRepository
	Feedback *repository.FeedbackRepository
}

func NewReviewService(reviews *repository.ReviewRepository, feedback *repository.FeedbackRepository) *ReviewService {
	return &ReviewService{Reviews: reviews, Feedback: feedback}
}

type ScoreInput struct {
	ItemID string `json:"item_id"`
	Score  string `json:"score"`
}

type CreateReviewInput struct {
	PreceptorFeedbackDocumentID string       `json:"preceptor_feedback_document_id"`
	Comment                     string       `json:"comment"`
	FlagDiscussed               bool         `json:"flag_discussed"`
	DiscussionDate              *time.Time   `json:"discussion_date,omitempty"`
	Scores                      []ScoreInput `json:"scores"`
}

// Create 写入评审及其打分。每条反馈至多一条评审在这里校验，
// 不再依赖读取侧的覆盖语义。
func (s *ReviewService) Create(ctx context.Context, facilitatorID string, in CreateReviewInput) (*EnrichedReview, error) {
	feedbackID := strings.TrimSpace(in.PreceptorFeedbackDocumentID)
	if feedbackID == "" {
		return nil, util.ValidationError("preceptor_feedback_document_id is required")
	}

	if _, err := s.Feedback.FindByID(ctx, feedbackID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, util.NewAppError(util.CodeNotFound, "feedback %s does not exist", feedbackID)
		}
		return nil, util.UpstreamError(err)
	}

	if _, err := s.Reviews.FindByFeedbackID(ctx, feedbackID); err == nil {
		return nil, util.ValidationError("feedback %s already has a review", feedbackID)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, util.UpstreamError(err)
	}

	review := &model.FacilitatorReview{
		PreceptorFeedbackDocumentID: feedbackID,
		FacilitatorID:               facilitatorID,
		Comment:                     in.Comment,
		FlagDiscussed:               in.FlagDiscussed,
		DiscussionDate:              in.DiscussionDate,
		CreatedAt:                   time.Now(),
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, util.UpstreamError(err)
	}

	scores := make([]model.ReviewScore, 0, len(in.Scores))
	for _, sc := range in.Scores {
		itemID := strings.TrimSpace(sc.ItemID)
		if itemID == "" {
			continue
		}
		score := strings.TrimSpace(sc.Score)
		if score == "" {
			score = "N/A"
		}
		scores = append(scores, model.ReviewScore{
			FacilitatorReviewDocumentID: review.ID,
			ItemID:                      itemID,
			Score:                       score,
		})
	}
	if err := s.Reviews.CreateScores(ctx, scores); err != nil {
		return nil, util.UpstreamError(err)
	}

	return &EnrichedReview{FacilitatorReview: *review, ReviewScores: scores}, nil
}
