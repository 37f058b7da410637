package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"time"
)

type NotificationRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewNotificationRepository(store docstore.Client, pageSize int) *NotificationRepository {
	return &NotificationRepository{Store: store, PageSize: pageSize}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	id, err := r.Store.Create(ctx, model.CollNotifications, n)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]model.Notification, error) {
	return docstore.ListAll[model.Notification](ctx, r.Store, model.CollNotifications,
		docstore.Eq("recipient_id", recipientID), docstore.Order{Field: "created_at", Desc: true}, r.PageSize)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.Store.Update(ctx, model.CollNotifications, id, map[string]any{"read": true})
}
