package service

import (
	"clinplace_backend/internal/model"
)

// 聚合结果中各缺失分支的占位值。缺条目宁可占位也不静默丢弃。
const (
	UnknownUserName    = "Unknown user"
	UnknownStudentName = "Unknown student"
)

type ItemDetails struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
}

type EnrichedAIItem struct {
	model.AIFeedbackItem
	ItemDetails ItemDetails `json:"item_details"`
}

type EnrichedReview struct {
	model.FacilitatorReview
	ReviewScores []model.ReviewScore `json:"review_scores"`
}

type EnrichedFeedback struct {
	model.PreceptorFeedback
	PreceptorName   string           `json:"preceptor_name"`
	AIFeedbackItems []EnrichedAIItem `json:"ai_feedback_items"`
	// Review 缺失时序列化为 null，绝不是空对象。
	Review *EnrichedReview `json:"review"`
}

type EnrichedStudent struct {
	model.Student
	PreceptorFeedbackList []EnrichedFeedback `json:"preceptorFeedbackList"`
}

// FeedbackWithStudent 反馈为根的视图，附学生摘要；学生缺失用占位名。
type FeedbackWithStudent struct {
	EnrichedFeedback
	StudentName   string `json:"student_name"`
	StudentNumber string `json:"student_number"`
}

// AssembleFeedback 纯内存组装：反馈 ⊕ 带教老师名 ⊕ AI 条目（含标准
// 描述）⊕ 评审（含打分）。输入顺序即输出顺序，所有数据必须已在内存，
// 本函数不做任何 I/O。
func AssembleFeedback(
	feedback []model.PreceptorFeedback,
	items []model.AIFeedbackItem,
	reviews []model.FacilitatorReview,
	scores []model.ReviewScore,
	standards []model.AssessmentStandard,
	names map[string]string,
) []EnrichedFeedback {
	itemsByFeedback := IndexBy(items, func(it model.AIFeedbackItem) string { return it.PreceptorFeedbackDocumentID })
	reviewByFeedback := IndexUnique(reviews, func(rv model.FacilitatorReview) string { return rv.PreceptorFeedbackDocumentID })
	scoresByReview := IndexBy(scores, func(sc model.ReviewScore) string { return sc.FacilitatorReviewDocumentID })
	standardByItem := IndexFirst(standards, func(st model.AssessmentStandard) string { return st.ItemID })

	result := make([]EnrichedFeedback, 0, len(feedback))
	for _, fb := range feedback {
		enriched := EnrichedFeedback{
			PreceptorFeedback: fb,
			PreceptorName:     names[fb.PreceptorID],
			AIFeedbackItems:   make([]EnrichedAIItem, 0, len(itemsByFeedback[fb.ID])),
		}
		if enriched.PreceptorName == "" {
			enriched.PreceptorName = UnknownUserName
		}

		for _, it := range itemsByFeedback[fb.ID] {
			details := ItemDetails{ItemID: it.ItemID, Description: model.DescriptionNotFound}
			if st, ok := standardByItem[it.ItemID]; ok {
				details.Description = st.Description
			}
			enriched.AIFeedbackItems = append(enriched.AIFeedbackItems, EnrichedAIItem{
				AIFeedbackItem: it,
				ItemDetails:    details,
			})
		}

		if rv, ok := reviewByFeedback[fb.ID]; ok {
			reviewScores := scoresByReview[rv.ID]
			if reviewScores == nil {
				reviewScores = make([]model.ReviewScore, 0)
			}
			enriched.Review = &EnrichedReview{
				FacilitatorReview: rv,
				ReviewScores:      reviewScores,
			}
		}

		result = append(result, enriched)
	}
	return result
}

// AssembleStudents 学生为根的嵌套视图。feedback 列表里只会出现
// student_document_id 正是该学生 id 的条目。
func AssembleStudents(students []model.Student, feedback []EnrichedFeedback) []EnrichedStudent {
	byStudent := IndexBy(feedback, func(fb EnrichedFeedback) string { return fb.StudentDocumentID })

	result := make([]EnrichedStudent, 0, len(students))
	for _, st := range students {
		list := byStudent[st.ID]
		if list == nil {
			list = make([]EnrichedFeedback, 0)
		}
		result = append(result, EnrichedStudent{
			Student:               st,
			PreceptorFeedbackList: list,
		})
	}
	return result
}

// AttachStudents 给反馈为根的视图附学生摘要。
func AttachStudents(feedback []EnrichedFeedback, students []model.Student) []FeedbackWithStudent {
	byID := IndexFirst(students, func(st model.Student) string { return st.ID })

	result := make([]FeedbackWithStudent, 0, len(feedback))
	for _, fb := range feedback {
		row := FeedbackWithStudent{EnrichedFeedback: fb, StudentName: UnknownStudentName}
		if st, ok := byID[fb.StudentDocumentID]; ok {
			row.StudentName = st.FullName()
			row.StudentNumber = st.StudentNumber
		}
		result = append(result, row)
	}
	return result
}
