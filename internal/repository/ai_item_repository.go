package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"fmt"
)

type AIItemRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewAIItemRepository(store docstore.Client, pageSize int) *AIItemRepository {
	return &AIItemRepository{Store: store, PageSize: pageSize}
}

// CreateBatch 紧随反馈创建的条目批量写入。文档库没有跨文档事务，
// 中途失败会留下无条目的反馈，读取侧按空列表容忍。
func (r *AIItemRepository) CreateBatch(ctx context.Context, items []model.AIFeedbackItem) error {
	for i := range items {
		id, err := r.Store.Create(ctx, model.CollAIFeedbackItems, &items[i])
		if err != nil {
			return fmt.Errorf("create ai item %d of %d: %w", i+1, len(items), err)
		}
		items[i].ID = id
	}
	return nil
}

func (r *AIItemRepository) ListByFeedbackIDs(ctx context.Context, feedbackIDs []string) ([]model.AIFeedbackItem, error) {
	return docstore.ListAllIn[model.AIFeedbackItem](ctx, r.Store, model.CollAIFeedbackItems,
		"preceptor_feedback_document_id", feedbackIDs, docstore.Order{}, r.PageSize)
}
