package model

// 文档库集合名。六个业务集合相互独立，关联全靠读取侧内存连接。
const (
	CollUsers               = "users"
	CollStudents            = "students"
	CollPreceptorFeedback   = "preceptor_feedback"
	CollAIFeedbackItems     = "ai_feedback_items"
	CollAssessmentStandards = "assessment_standards"
	CollFacilitatorReviews  = "facilitator_reviews"
	CollReviewScores        = "review_scores"
	CollNotifications       = "notifications"
)
