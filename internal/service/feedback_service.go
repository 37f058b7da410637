package service

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"clinplace_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type FeedbackService struct {
	Feedback      *repository.FeedbackRepository
	AIItems       *repository.AIItemRepository
	Students      *repository.StudentRepository
	Notifications *repository.NotificationRepository
	Aggregation   *AggregationService
}

func NewFeedbackService(
	feedback *repository.FeedbackRepository,
	aiItems *repository.AIItemRepository,
	students *repository.StudentRepository,
	notifications *repository.NotificationRepository,
	aggregation *AggregationService,
) *FeedbackService {
	return &FeedbackService{
		Feedback:      feedback,
		AIItems:       aiItems,
		Students:      students,
		Notifications: notifications,
		Aggregation:   aggregation,
	}
}

type AIItemInput struct {
	ItemID     string `json:"item_id"`
	IsPositive bool   `json:"is_positive"`
}

type CreateFeedbackInput struct {
	StudentDocumentID          string        `json:"student_document_id"`
	FeedbackText               string        `json:"feedback_text"`
	FlagDiscussWithFacilitator bool          `json:"flag_discuss_with_facilitator"`
	FlagDiscussedWithStudent   bool          `json:"flag_discussed_with_student"`
	DiscussionDate             *time.Time    `json:"discussion_date,omitempty"`
	ImageURL                   string        `json:"image_url,omitempty"`
	AIItems                    []AIItemInput `json:"ai_items"`
}

// Create 写入反馈，随后批量写 AI 条目，必要时投递通知。两步写入
// 没有事务，条目写入中途失败会留下无条目的孤儿反馈，读取侧容忍。
// strict 为真时（v2 入口）做必填字段校验。
func (s *FeedbackService) Create(ctx context.Context, preceptorID string, in CreateFeedbackInput, strict bool) (*model.PreceptorFeedback, error) {
	if strict {
		if strings.TrimSpace(in.StudentDocumentID) == "" {
			return nil, util.ValidationError("student_document_id is required")
		}
		if strings.TrimSpace(in.FeedbackText) == "" {
			return nil, util.ValidationError("feedback_text is required")
		}
	}

	fb := &model.PreceptorFeedback{
		StudentDocumentID:          in.StudentDocumentID,
		PreceptorID:                preceptorID,
		FeedbackText:               in.FeedbackText,
		FlagDiscussWithFacilitator: in.FlagDiscussWithFacilitator,
		FlagDiscussedWithStudent:   in.FlagDiscussedWithStudent,
		DiscussionDate:             in.DiscussionDate,
		ImageURL:                   in.ImageURL,
		CreatedAt:                  time.Now(),
	}
	if err := s.Feedback.Create(ctx, fb); err != nil {
		return nil, util.UpstreamError(err)
	}

	items := make([]model.AIFeedbackItem, 0, len(in.AIItems))
	for _, it := range in.AIItems {
		itemID := strings.TrimSpace(it.ItemID)
		if itemID == "" {
			continue
		}
		items = append(items, model.AIFeedbackItem{
			PreceptorFeedbackDocumentID: fb.ID,
			ItemID:                      itemID,
			IsPositive:                  it.IsPositive,
		})
	}
	if err := s.AIItems.CreateBatch(ctx, items); err != nil {
		return nil, util.UpstreamError(err)
	}

	if in.FlagDiscussWithFacilitator {
		s.notifyFacilitator(ctx, fb)
	}

	return fb, nil
}

// notifyFacilitator 通知归属该学生的辅导老师。旁路写失败不拖垮
// 反馈创建本身，只记日志。
func (s *FeedbackService) notifyFacilitator(ctx context.Context, fb *model.PreceptorFeedback) {
	student, err := s.Students.FindByID(ctx, fb.StudentDocumentID)
	if err != nil {
		logger.Log.Warn("notification skipped, student lookup failed",
			zap.String("student_id", fb.StudentDocumentID), zap.Error(err))
		return
	}
	if student.CreatedByID == "" {
		return
	}

	n := &model.Notification{
		RecipientID: student.CreatedByID,
		Message:     fmt.Sprintf("New feedback for %s is flagged for discussion with a facilitator.", student.FullName()),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		logger.Log.Warn("notification write failed", zap.Error(err))
	}
}

// ListOwnEnriched 带教老师本人的反馈，完整富化视图。
func (s *FeedbackService) ListOwnEnriched(ctx context.Context, preceptorID string, newestFirst bool) ([]FeedbackWithStudent, error) {
	feedback, err := s.Feedback.ListByPreceptor(ctx, preceptorID, newestFirst)
	if err != nil {
		return nil, util.UpstreamError(err)
	}
	return s.Aggregation.FeedbackTreesWithStudents(ctx, feedback)
}

// GetByStudent 单个学生的富化反馈列表。学生不存在按读富化路径的
// 约定不算硬错误，返回空列表。
func (s *FeedbackService) GetByStudent(ctx context.Context, studentID string) ([]EnrichedFeedback, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, util.ValidationError("student_document_id is required")
	}

	if _, err := s.Students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return make([]EnrichedFeedback, 0), nil
		}
		return nil, util.UpstreamError(err)
	}

	feedback, err := s.Feedback.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, util.UpstreamError(err)
	}
	return s.Aggregation.EnrichFeedback(ctx, feedback)
}

// GetRecent 最近 days 天内本人提交的反馈，新的在前。截止时间过滤
// 在内存做：文档库过滤只支持单字段等值/集合匹配。
func (s *FeedbackService) GetRecent(ctx context.Context, preceptorID string, days int) ([]model.PreceptorFeedback, error) {
	if days <= 0 {
		days = 7
	}

	feedback, err := s.Feedback.ListByPreceptor(ctx, preceptorID, true)
	if err != nil {
		return nil, util.UpstreamError(err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	recent := make([]model.PreceptorFeedback, 0, len(feedback))
	for _, fb := range feedback {
		if fb.CreatedAt.After(cutoff) {
			recent = append(recent, fb)
		}
	}
	return recent, nil
}
