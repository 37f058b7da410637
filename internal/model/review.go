package model

import (
	"time"
)

// FacilitatorReview 每条反馈至多一条评审，写入时校验。
type FacilitatorReview struct {
	ID                          string     `bson:"_id,omitempty" json:"id"`
	PreceptorFeedbackDocumentID string     `bson:"preceptor_feedback_document_id" json:"preceptor_feedback_document_id"`
	FacilitatorID               string     `bson:"facilitator_id" json:"facilitator_id"`
	Comment                     string     `bson:"comment" json:"comment"`
	FlagDiscussed               bool       `bson:"flag_discussed" json:"flag_discussed"`
	DiscussionDate              *time.Time `bson:"discussion_date,omitempty" json:"discussion_date,omitempty"`
	CreatedAt                   time.Time  `bson:"created_at" json:"created_at"`
}

// ReviewScore 单条标准的打分，数值或 "N/A"。
type ReviewScore struct {
	ID                          string `bson:"_id,omitempty" json:"id"`
	FacilitatorReviewDocumentID string `bson:"facilitator_review_document_id" json:"facilitator_review_document_id"`
	ItemID                      string `bson:"item_id" json:"item_id"`
	Score                       string `bson:"score" json:"score"`
}
