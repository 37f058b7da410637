package service

import (
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"strings"
	"time"
)

// searchResultCap 前缀搜索的固定结果上限。
const searchResultCap = 20

type StudentService struct {
	Students    *repository.StudentRepository
	Aggregation *AggregationService
}

func NewStudentService(students *repository.StudentRepository, aggregation *AggregationService) *StudentService {
	return &StudentService{Students: students, Aggregation: aggregation}
}

type CreateStudentInput struct {
	StudentNumber  string    `json:"student_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CampusID       string    `json:"campus_id"`
	CohortID       string    `json:"cohort_id"`
	PlacementStart time.Time `json:"placement_start"`
	PlacementEnd   time.Time `json:"placement_end"`
}

func (s *StudentService) Create(ctx context.Context, facilitatorID string, in CreateStudentInput) (*model.Student, error) {
	if strings.TrimSpace(in.StudentNumber) == "" {
		return nil, util.ValidationError("student_number is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, util.ValidationError("first_name and last_name are required")
	}

	student := &model.Student{
		StudentNumber:  strings.TrimSpace(in.StudentNumber),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		CampusID:       in.CampusID,
		CohortID:       in.CohortID,
		PlacementStart: in.PlacementStart,
		PlacementEnd:   in.PlacementEnd,
		CreatedByID:    facilitatorID,
		CreatedAt:      time.Now(),
	}
	if err := s.Students.Create(ctx, student); err != nil {
		return nil, util.UpstreamError(err)
	}
	return student, nil
}

// SearchByPrefix 大小写不敏感的前缀搜索，最少两个字符，结果封顶。
// 匹配在内存做：文档库只支持单字段等值/集合过滤。
func (s *StudentService) SearchByPrefix(ctx context.Context, query string) ([]model.Student, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return nil, util.ValidationError("query must be at least 2 characters")
	}

	students, err := s.Students.ListAll(ctx)
	if err != nil {
		return nil, util.UpstreamError(err)
	}

	matched := make([]model.Student, 0, searchResultCap)
	for _, st := range students {
		if !matchesPrefix(st, q) {
			continue
		}
		matched = append(matched, st)
		if len(matched) == searchResultCap {
			break
		}
	}
	return matched, nil
}

func matchesPrefix(st model.Student, q string) bool {
	candidates := []string{
		strings.ToLower(st.FirstName),
		strings.ToLower(st.LastName),
		strings.ToLower(st.FullName()),
		strings.ToLower(st.StudentNumber),
	}
	for _, c := range candidates {
		if strings.HasPrefix(c, q) {
			return true
		}
	}
	return false
}

// ListEnriched 辅导老师视角：本人名下学生的完整嵌套视图。
func (s *StudentService) ListEnriched(ctx context.Context, facilitatorID string) ([]EnrichedStudent, error) {
	students, err := s.Students.ListByCreator(ctx, facilitatorID)
	if err != nil {
		return nil, util.UpstreamError(err)
	}
	return s.Aggregation.StudentTrees(ctx, students)
}
