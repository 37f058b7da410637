package model

import (
	"time"
)

// PreceptorFeedback 带教老师对学生的自由文本反馈。创建后不再修改。
type PreceptorFeedback struct {
	ID                         string     `bson:"_id,omitempty" json:"id"`
	StudentDocumentID          string     `bson:"student_document_id" json:"student_document_id"`
	PreceptorID                string     `bson:"preceptor_id" json:"preceptor_id"`
	FeedbackText               string     `bson:"feedback_text" json:"feedback_text"`
	FlagDiscussWithFacilitator bool       `bson:"flag_discuss_with_facilitator" json:"flag_discuss_with_facilitator"`
	FlagDiscussedWithStudent   bool       `bson:"flag_discussed_with_student" json:"flag_discussed_with_student"`
	DiscussionDate             *time.Time `bson:"discussion_date,omitempty" json:"discussion_date,omitempty"`
	ImageURL                   string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt                  time.Time  `bson:"created_at" json:"created_at"`
}

// AIFeedbackItem 分类器认为该反馈涉及的某一条评价标准。
// ItemID 是标准编号（如 "1.1"），全程按字符串处理。
type AIFeedbackItem struct {
	ID                          string `bson:"_id,omitempty" json:"id"`
	PreceptorFeedbackDocumentID string `bson:"preceptor_feedback_document_id" json:"preceptor_feedback_document_id"`
	ItemID                      string `bson:"item_id" json:"item_id"`
	IsPositive                  bool   `bson:"is_positive" json:"is_positive"`
}
