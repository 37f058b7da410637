package service

import (
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"

	"golang.org/x/sync/errgroup"
)

// AggregationService 跨集合聚合引擎：分页读齐六个集合，建外键索引，
// 内存中做 N 路连接。集合之间相互独立的读取并发执行，有数据依赖的
// （先拿到反馈 id 才能查条目/评审）串行。
type AggregationService struct {
	Students  *repository.StudentRepository
	Feedback  *repository.FeedbackRepository
	AIItems   *repository.AIItemRepository
	Reviews   *repository.ReviewRepository
	Standards *repository.StandardRepository
	Identity  *IdentityService
}

func NewAggregationService(
	students *repository.StudentRepository,
	feedback *repository.FeedbackRepository,
	aiItems *repository.AIItemRepository,
	reviews *repository.ReviewRepository,
	standards *repository.StandardRepository,
	identity *IdentityService,
) *AggregationService {
	return &AggregationService{
		Students:  students,
		Feedback:  feedback,
		AIItems:   aiItems,
		Reviews:   reviews,
		Standards: standards,
		Identity:  identity,
	}
}

// EnrichFeedback 拉取一批反馈的全部关联数据并组装。任何集合读取
// 失败都使整个聚合失败，不返回半截结果。
func (s *AggregationService) EnrichFeedback(ctx context.Context, feedback []model.PreceptorFeedback) ([]EnrichedFeedback, error) {
	if len(feedback) == 0 {
		return make([]EnrichedFeedback, 0), nil
	}

	feedbackIDs := make([]string, 0, len(feedback))
	preceptorIDs := make([]string, 0, len(feedback))
	for _, fb := range feedback {
		feedbackIDs = append(feedbackIDs, fb.ID)
		preceptorIDs = append(preceptorIDs, fb.PreceptorID)
	}

	var (
		items     []model.AIFeedbackItem
		reviews   []model.FacilitatorReview
		standards []model.AssessmentStandard
		names     map[string]string
	)

	// 条目、评审、标准目录、身份解析互不依赖，并发拉取
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.AIItems.ListByFeedbackIDs(gctx, feedbackIDs)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.Reviews.ListByFeedbackIDs(gctx, feedbackIDs)
		return err
	})
	g.Go(func() error {
		var err error
		standards, err = s.Standards.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		names = s.Identity.ResolveDisplayNames(gctx, preceptorIDs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, util.UpstreamError(err)
	}

	// 打分依赖评审 id，必须在评审之后
	reviewIDs := make([]string, 0, len(reviews))
	for _, rv := range reviews {
		reviewIDs = append(reviewIDs, rv.ID)
	}
	scores, err := s.Reviews.ListScoresByReviewIDs(ctx, reviewIDs)
	if err != nil {
		return nil, util.UpstreamError(err)
	}

	return AssembleFeedback(feedback, items, reviews, scores, standards, names), nil
}

// StudentTrees 学生为根的完整嵌套视图。
func (s *AggregationService) StudentTrees(ctx context.Context, students []model.Student) ([]EnrichedStudent, error) {
	studentIDs := make([]string, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	feedback, err := s.Feedback.ListByStudentIDs(ctx, studentIDs)
	if err != nil {
		return nil, util.UpstreamError(err)
	}

	enriched, err := s.EnrichFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}

	return AssembleStudents(students, enriched), nil
}

// FeedbackTreesWithStudents 反馈为根的视图，附学生摘要。
func (s *AggregationService) FeedbackTreesWithStudents(ctx context.Context, feedback []model.PreceptorFeedback) ([]FeedbackWithStudent, error) {
	enriched, err := s.EnrichFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}

	studentIDSet := make(map[string]bool, len(feedback))
	studentIDs := make([]string, 0, len(feedback))
	for _, fb := range feedback {
		if fb.StudentDocumentID != "" && !studentIDSet[fb.StudentDocumentID] {
			studentIDSet[fb.StudentDocumentID] = true
			studentIDs = append(studentIDs, fb.StudentDocumentID)
		}
	}

	students, err := s.Students.ListByIDs(ctx, studentIDs)
	if err != nil {
		return nil, util.UpstreamError(err)
	}

	return AttachStudents(enriched, students), nil
}
