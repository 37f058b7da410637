package service

import (
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(store *docstore.MemoryStore) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(store, 100), cfg)
}

func seedLoginUser(t *testing.T, store *docstore.MemoryStore, email, password string, disabled bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	mustCreate(t, store, model.CollUsers, &model.User{
		ID:       "u-1",
		Name:     "Dana Wu",
		Email:    email,
		Password: string(hash),
		Role:     model.Preceptor,
		Disabled: disabled,
	})
}

func TestLoginIssuesParsableToken(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedLoginUser(t, store, "dana@example.com", "s3cret", false)
	svc := newAuthService(store)

	token, user, err := svc.Login(context.Background(), "dana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, model.Preceptor, claims.Role)
}

// 账号不存在和口令不对给同一个错误，不泄露账号是否存在。
func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedLoginUser(t, store, "dana@example.com", "s3cret", false)
	svc := newAuthService(store)
	ctx := context.Background()

	_, _, errWrongPassword := svc.Login(ctx, "dana@example.com", "wrong")
	_, _, errNoAccount := svc.Login(ctx, "ghost@example.com", "s3cret")

	var appErr *util.AppError
	require.ErrorAs(t, errWrongPassword, &appErr)
	assert.Equal(t, util.CodeUnauthenticated, appErr.Code)
	wrongMsg := appErr.Error()

	require.ErrorAs(t, errNoAccount, &appErr)
	assert.Equal(t, util.CodeUnauthenticated, appErr.Code)
	assert.Equal(t, wrongMsg, appErr.Error())
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedLoginUser(t, store, "dana@example.com", "s3cret", true)
	svc := newAuthService(store)

	_, _, err := svc.Login(context.Background(), "dana@example.com", "s3cret")
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.CodeUnauthenticated, appErr.Code)
}
