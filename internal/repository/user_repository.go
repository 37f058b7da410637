package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"time"
)

type UserRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewUserRepository(store docstore.Client, pageSize int) *UserRepository {
	return &UserRepository{Store: store, PageSize: pageSize}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	id, err := r.Store.Create(ctx, model.CollUsers, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.Store.Get(ctx, model.CollUsers, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var users []model.User
	q := docstore.Query{Filter: docstore.Eq("email", email), Limit: 1}
	if err := r.Store.List(ctx, model.CollUsers, q, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, docstore.ErrNotFound
	}
	return &users[0], nil
}
