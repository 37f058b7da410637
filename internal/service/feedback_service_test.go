package service

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedbackService(store *docstore.MemoryStore) *FeedbackService {
	return NewFeedbackService(
		repository.NewFeedbackRepository(store, 100),
		repository.NewAIItemRepository(store, 100),
		repository.NewStudentRepository(store, 100),
		repository.NewNotificationRepository(store, 100),
		newAggregation(store),
	)
}

func seedStudent(t *testing.T, store *docstore.MemoryStore, id, createdBy string) {
	t.Helper()
	mustCreate(t, store, model.CollStudents, &model.Student{
		ID:            id,
		StudentNumber: "S-" + id,
		FirstName:     "Ana",
		LastName:      "Reyes",
		CreatedByID:   createdBy,
		CreatedAt:     time.Now(),
	})
}

func TestCreateFeedbackWritesItems(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedStudent(t, store, "st-1", "fac-1")
	svc := newFeedbackService(store)

	in := CreateFeedbackInput{
		StudentDocumentID: "st-1",
		FeedbackText:      "great week",
		AIItems: []AIItemInput{
			{ItemID: "1.1", IsPositive: true},
			{ItemID: "  ", IsPositive: true}, // 空编号跳过
			{ItemID: "6.3", IsPositive: false},
		},
	}
	fb, err := svc.Create(context.Background(), "u-1", in, false)
	require.NoError(t, err)
	require.NotEmpty(t, fb.ID)

	items, err := svc.AIItems.ListByFeedbackIDs(context.Background(), []string{fb.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1.1", items[0].ItemID)
	assert.Equal(t, "6.3", items[1].ItemID)
}

func TestCreateFeedbackStrictValidation(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := newFeedbackService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", CreateFeedbackInput{FeedbackText: "text"}, true)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.CodeValidation, appErr.Code)

	_, err = svc.Create(ctx, "u-1", CreateFeedbackInput{StudentDocumentID: "st-1"}, true)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.CodeValidation, appErr.Code)

	// 宽松入口允许缺字段
	_, err = svc.Create(ctx, "u-1", CreateFeedbackInput{FeedbackText: "text"}, false)
	assert.NoError(t, err)
}

func TestCreateFeedbackFlagNotifiesFacilitator(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedStudent(t, store, "st-1", "fac-1")
	svc := newFeedbackService(store)

	in := CreateFeedbackInput{
		StudentDocumentID:          "st-1",
		FeedbackText:               "needs a conversation",
		FlagDiscussWithFacilitator: true,
	}
	_, err := svc.Create(context.Background(), "u-1", in, true)
	require.NoError(t, err)

	notifications, err := svc.Notifications.ListByRecipient(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Ana Reyes")
	assert.False(t, notifications[0].Read)
}

// 旁路通知失败（学生查不到）不拖垮反馈创建。
func TestCreateFeedbackNotificationFailureIsNotFatal(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := newFeedbackService(store)

	in := CreateFeedbackInput{
		StudentDocumentID:          "st-gone",
		FeedbackText:               "text",
		FlagDiscussWithFacilitator: true,
	}
	fb, err := svc.Create(context.Background(), "u-1", in, false)
	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, 0, store.Calls("create", model.CollNotifications))
}

func TestGetByStudentMissingStudentReturnsEmpty(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := newFeedbackService(store)

	result, err := svc.GetByStudent(context.Background(), "st-gone")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetByStudentRequiresID(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := newFeedbackService(store)

	_, err := svc.GetByStudent(context.Background(), "  ")
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.CodeValidation, appErr.Code)
}

func TestGetRecentFiltersByCutoff(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := newFeedbackService(store)
	ctx := context.Background()

	old := model.PreceptorFeedback{
		ID: "fb-old", PreceptorID: "u-1", FeedbackText: "old",
		CreatedAt: time.Now().AddDate(0, 0, -30),
	}
	fresh := model.PreceptorFeedback{
		ID: "fb-new", PreceptorID: "u-1", FeedbackText: "new",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	mustCreate(t, store, model.CollPreceptorFeedback, &old)
	mustCreate(t, store, model.CollPreceptorFeedback, &fresh)

	recent, err := svc.GetRecent(ctx, "u-1", 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "fb-new", recent[0].ID)

	// days<=0 回退默认 7 天
	recent, err = svc.GetRecent(ctx, "u-1", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestListOwnEnrichedNewestFirst(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedStudent(t, store, "st-1", "fac-1")
	seedUser(t, store, "u-1", "Dana Wu", model.Preceptor)
	svc := newFeedbackService(store)

	earlier := model.PreceptorFeedback{
		ID: "fb-1", PreceptorID: "u-1", StudentDocumentID: "st-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	later := model.PreceptorFeedback{
		ID: "fb-2", PreceptorID: "u-1", StudentDocumentID: "st-1",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	mustCreate(t, store, model.CollPreceptorFeedback, &earlier)
	mustCreate(t, store, model.CollPreceptorFeedback, &later)

	rows, err := svc.ListOwnEnriched(context.Background(), "u-1", true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "fb-2", rows[0].ID)
	assert.Equal(t, "Dana Wu", rows[0].PreceptorName)
	assert.Equal(t, "Ana Reyes", rows[0].StudentName)
}
