package service

import (
	"clinplace_backend/internal/model"
	"clinplace_backend/pkg/logger"
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NameResolver 外部身份查询，单条未命中或失败只影响该条。
type NameResolver interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// IdentityService 先对整个结果集的身份 id 去重，再限并发逐条解析。
// 重复 id 只查一次，不按反馈行数放大查询量。
type IdentityService struct {
	Users       NameResolver
	Concurrency int
}

func NewIdentityService(users NameResolver) *IdentityService {
	return &IdentityService{Users: users, Concurrency: 8}
}

// ResolveDisplayNames 返回 id → 展示名。查询失败的 id 记日志并落
// 占位名，不影响整批。
func (s *IdentityService) ResolveDisplayNames(ctx context.Context, ids []string) map[string]string {
	distinct := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			distinct[id] = true
		}
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = 8
	}

	var mu sync.Mutex
	names := make(map[string]string, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for id := range distinct {
		id := id
		g.Go(func() error {
			user, err := s.Users.FindByID(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Log.Warn("identity lookup failed", zap.String("user_id", id), zap.Error(err))
				names[id] = UnknownUserName
				return nil
			}
			names[id] = user.Name
			return nil
		})
	}
	g.Wait()

	return names
}
