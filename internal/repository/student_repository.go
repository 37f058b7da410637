package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"context"
	"time"
)

type StudentRepository struct {
	Store    docstore.Client
	PageSize int
}

func NewStudentRepository(store docstore.Client, pageSize int) *StudentRepository {
	return &StudentRepository{Store: store, PageSize: pageSize}
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}
	id, err := r.Store.Create(ctx, model.CollStudents, student)
	if err != nil {
		return err
	}
	student.ID = id
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	if err := r.Store.Get(ctx, model.CollStudents, id, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListAll 全量学生，按插入顺序。
func (r *StudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	return docstore.ListAll[model.Student](ctx, r.Store, model.CollStudents, docstore.Filter{}, docstore.Order{}, r.PageSize)
}

func (r *StudentRepository) ListByCreator(ctx context.Context, facilitatorID string) ([]model.Student, error) {
	return docstore.ListAll[model.Student](ctx, r.Store, model.CollStudents,
		docstore.Eq("created_by_id", facilitatorID), docstore.Order{}, r.PageSize)
}

func (r *StudentRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Student, error) {
	return docstore.ListAllIn[model.Student](ctx, r.Store, model.CollStudents, "_id", ids, docstore.Order{}, r.PageSize)
}
