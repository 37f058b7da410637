package controller

import (
	"bytes"
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/service"
	"clinplace_backend/internal/util"
	"clinplace_backend/pkg/monitoring"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActionController 单入口动作路由。身份检查点在中间件，这里完成
// 第二道角色检查点（每次都读文档库里的角色元数据记录，不信任令牌
// 自带的角色），然后在封闭的动作枚举上分发。
type ActionController struct {
	Users         *repository.UserRepository
	Standards     *repository.StandardRepository
	FeedbackSvc   *service.FeedbackService
	ReviewSvc     *service.ReviewService
	StudentSvc    *service.StudentService
	Notifications *service.NotificationService
	AI            *service.AIService
	Storage       *service.StorageService

	routes map[string]actionRoute
}

type actionRoute struct {
	role   model.UserRole
	handle func(c *gin.Context, claims *util.Claims, payload json.RawMessage)
}

// ActionRequest 入包。payload 原样保留，由命中的动作按自己的
// 类型化结构二次解码。
type ActionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func NewActionController(
	users *repository.UserRepository,
	standards *repository.StandardRepository,
	feedbackSvc *service.FeedbackService,
	reviewSvc *service.ReviewService,
	studentSvc *service.StudentService,
	notifications *service.NotificationService,
	ai *service.AIService,
	storage *service.StorageService,
) *ActionController {
	ctrl := &ActionController{
		Users:         users,
		Standards:     standards,
		FeedbackSvc:   feedbackSvc,
		ReviewSvc:     reviewSvc,
		StudentSvc:    studentSvc,
		Notifications: notifications,
		AI:            ai,
		Storage:       storage,
	}

	ctrl.routes = map[string]actionRoute{
		// 带教老师动作
		"list_own_feedback":       {model.Preceptor, ctrl.listOwnFeedback},
		"create_feedback":         {model.Preceptor, ctrl.createFeedback},
		"create_feedback_v2":      {model.Preceptor, ctrl.createFeedbackV2},
		"search_students":         {model.Preceptor, ctrl.searchStudents},
		"get_rubric_settings":     {model.Preceptor, ctrl.getRubricSettings},
		"get_feedback_by_student": {model.Preceptor, ctrl.getFeedbackByStudent},
		"get_recent_feedback":     {model.Preceptor, ctrl.getRecentFeedback},
		"upload_feedback_image":   {model.Preceptor, ctrl.uploadFeedbackImage},
		"classify_feedback":       {model.Preceptor, ctrl.classifyFeedback},

		// 辅导老师动作
		"list_students_enriched": {model.Facilitator, ctrl.listStudentsEnriched},
		"create_student":         {model.Facilitator, ctrl.createStudent},
		"create_review":          {model.Facilitator, ctrl.createReview},
		"get_notifications":      {model.Facilitator, ctrl.getNotifications},
		"mark_notification_read": {model.Facilitator, ctrl.markNotificationRead},
	}

	return ctrl
}

// Dispatch POST /api/actions 的唯一入口。
func (ctrl *ActionController) Dispatch(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body: %v", err))
		return
	}

	route, ok := ctrl.routes[req.Action]
	if !ok {
		monitoring.ActionCounter.WithLabelValues(req.Action, util.StatusError).Inc()
		util.Fail(c, util.NewAppError(util.CodeUnknownAction, "unknown action %q", req.Action))
		return
	}

	// 角色检查点：角色元数据必须等于该动作要求的角色
	user, err := ctrl.Users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			util.Unauthorized(c)
			return
		}
		util.Fail(c, util.UpstreamError(err))
		return
	}
	if user.Role != route.role {
		monitoring.ActionCounter.WithLabelValues(req.Action, util.StatusError).Inc()
		util.Forbidden(c)
		return
	}

	route.handle(c, claims, req.Payload)

	status := util.StatusSuccess
	if c.Writer.Status() >= 400 {
		status = util.StatusError
	}
	monitoring.ActionCounter.WithLabelValues(req.Action, status).Inc()
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(out); err != nil {
		return util.ValidationError("invalid payload: %v", err)
	}
	return nil
}

func (ctrl *ActionController) listOwnFeedback(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		NewestFirst bool `json:"newest_first"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	list, err := ctrl.FeedbackSvc.ListOwnEnriched(c.Request.Context(), claims.UserID, in.NewestFirst)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, list)
}

func (ctrl *ActionController) createFeedback(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	ctrl.doCreateFeedback(c, claims, payload, false)
}

func (ctrl *ActionController) createFeedbackV2(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	ctrl.doCreateFeedback(c, claims, payload, true)
}

func (ctrl *ActionController) doCreateFeedback(c *gin.Context, claims *util.Claims, payload json.RawMessage, strict bool) {
	var in service.CreateFeedbackInput
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	fb, err := ctrl.FeedbackSvc.Create(c.Request.Context(), claims.UserID, in, strict)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, fb)
}

func (ctrl *ActionController) searchStudents(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		Query string `json:"query"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	students, err := ctrl.StudentSvc.SearchByPrefix(c.Request.Context(), in.Query)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, students)
}

func (ctrl *ActionController) getRubricSettings(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	standards, err := ctrl.Standards.ListAll(c.Request.Context())
	if err != nil {
		util.Fail(c, util.UpstreamError(err))
		return
	}
	util.Success(c, gin.H{"standards": standards})
}

func (ctrl *ActionController) getFeedbackByStudent(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		StudentDocumentID string `json:"student_document_id"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	list, err := ctrl.FeedbackSvc.GetByStudent(c.Request.Context(), in.StudentDocumentID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, list)
}

func (ctrl *ActionController) getRecentFeedback(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		Days int `json:"days"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	list, err := ctrl.FeedbackSvc.GetRecent(c.Request.Context(), claims.UserID, in.Days)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, list)
}

func (ctrl *ActionController) uploadFeedbackImage(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		ContentType string `json:"content_type"`
		Data        string `json:"data"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}
	if in.Data == "" {
		util.Fail(c, util.ValidationError("data is required"))
		return
	}

	// 容忍 data URL 前缀
	if idx := strings.Index(in.Data, ";base64,"); idx >= 0 {
		in.Data = in.Data[idx+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		util.Fail(c, util.ValidationError("data is not valid base64"))
		return
	}

	filename := fmt.Sprintf("feedback/%s%s", uuid.New().String(), imageExt(in.ContentType))
	url, err := ctrl.Storage.Upload(c.Request.Context(), filename, bytes.NewReader(raw), int64(len(raw)), in.ContentType)
	if err != nil {
		util.Fail(c, util.UpstreamError(err))
		return
	}
	util.Success(c, gin.H{"url": url})
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}

func (ctrl *ActionController) classifyFeedback(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		FeedbackText string `json:"feedback_text"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}
	if strings.TrimSpace(in.FeedbackText) == "" {
		util.Fail(c, util.ValidationError("feedback_text is required"))
		return
	}

	standards, err := ctrl.Standards.ListAll(c.Request.Context())
	if err != nil {
		util.Fail(c, util.UpstreamError(err))
		return
	}

	res := ctrl.AI.MatchStandards(c.Request.Context(), in.FeedbackText, standards)
	if res.Degraded {
		util.Warning(c, gin.H{"matched_ids": res.MatchedIDs},
			fmt.Sprintf("%s: classification unavailable, returning empty match list", util.CodeClassificationDegraded))
		return
	}
	util.Success(c, gin.H{"matched_ids": res.MatchedIDs})
}

func (ctrl *ActionController) listStudentsEnriched(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	trees, err := ctrl.StudentSvc.ListEnriched(c.Request.Context(), claims.UserID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, trees)
}

func (ctrl *ActionController) createStudent(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in service.CreateStudentInput
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	student, err := ctrl.StudentSvc.Create(c.Request.Context(), claims.UserID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, student)
}

func (ctrl *ActionController) createReview(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in service.CreateReviewInput
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	review, err := ctrl.ReviewSvc.Create(c.Request.Context(), claims.UserID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, review)
}

func (ctrl *ActionController) getNotifications(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	list, err := ctrl.Notifications.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, list)
}

func (ctrl *ActionController) markNotificationRead(c *gin.Context, claims *util.Claims, payload json.RawMessage) {
	var in struct {
		NotificationID string `json:"notification_id"`
	}
	if err := decodePayload(payload, &in); err != nil {
		util.Fail(c, err)
		return
	}

	if err := ctrl.Notifications.MarkRead(c.Request.Context(), claims.UserID, in.NotificationID); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, gin.H{"notification_id": in.NotificationID})
}
