package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"time"
)

type FeedbackRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewFeedbackRepository(store docstore.Client, pageSize int) *FeedbackRepository {
	return &FeedbackRepository{Store: store, PageSize: pageSize}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *model.PreceptorFeedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	id, err := r.Store.Create(ctx, model.CollPreceptorFeedback, fb)
	if err != nil {
		return err
	}
	fb.ID = id
	return nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*model.PreceptorFeedback, error) {
	var fb model.PreceptorFeedback
	if err := r.Store.Get(ctx, model.CollPreceptorFeedback, id, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListByPreceptor 某带教老师的全部反馈。newestFirst 时按创建时间
// 倒序，否则保持插入顺序。
func (r *FeedbackRepository) ListByPreceptor(ctx context.Context, preceptorID string, newestFirst bool) ([]model.PreceptorFeedback, error) {
	order := docstore.Order{}
	if newestFirst {
		order = docstore.Order{Field: "created_at", Desc: true}
	}
	return docstore.ListAll[model.PreceptorFeedback](ctx, r.Store, model.CollPreceptorFeedback,
		docstore.Eq("preceptor_id", preceptorID), order, r.PageSize)
}

func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]model.PreceptorFeedback, error) {
	return docstore.ListAll[model.PreceptorFeedback](ctx, r.Store, model.CollPreceptorFeedback,
		docstore.Eq("student_document_id", studentID), docstore.Order{}, r.PageSize)
}

func (r *FeedbackRepository) ListByStudentIDs(ctx context.Context, studentIDs []string) ([]model.PreceptorFeedback, error) {
	return docstore.ListAllIn[model.PreceptorFeedback](ctx, r.Store, model.CollPreceptorFeedback,
		"student_document_id", studentIDs, docstore.Order{}, r.PageSize)
}
