package service

import (
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  *repository.UserRepository
	Config *config.Config
}

func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Config: cfg}
}

// Login 校验邮箱口令并签发 JWT。凭据错误一律回 UNAUTHENTICATED，
// 不区分"账号不存在"和"口令不对"。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", nil, util.NewAppError(util.CodeUnauthenticated, "invalid credentials")
		}
		return "", nil, util.UpstreamError(err)
	}

	if user.Disabled {
		return "", nil, util.NewAppError(util.CodeUnauthenticated, "account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.NewAppError(util.CodeUnauthenticated, "invalid credentials")
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
