package repository

import (
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/model"
	"clinplace_backend/pkg/logger"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const standardsCacheKey = "assessment_standards:catalog"

// StandardRepository 只读标准目录。目录是静态数据，经 Redis 以 TTL
// 读穿缓存；连接连不上或未配置时直接回源，缓存故障不致命。
type StandardRepository struct {
	Store    docstore.Client
	Redis    *redis.Client
	PageSize int
	CacheTTL time.Duration
}

func NewStandardRepository(store docstore.Client, rdb *redis.Client, pageSize int) *StandardRepository {
	return &StandardRepository{Store: store, Redis: rdb, PageSize: pageSize, CacheTTL: 10 * time.Minute}
}

func (r *StandardRepository) ListAll(ctx context.Context) ([]model.AssessmentStandard, error) {
	if r.Redis != nil {
		cached, err := r.Redis.Get(ctx, standardsCacheKey).Result()
		if err == nil {
			var standards []model.AssessmentStandard
			if jsonErr := json.Unmarshal([]byte(cached), &standards); jsonErr == nil {
				return standards, nil
			}
		}
	}

	standards, err := docstore.ListAll[model.AssessmentStandard](ctx, r.Store, model.CollAssessmentStandards,
		docstore.Filter{}, docstore.Order{Field: "item_id"}, r.PageSize)
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if raw, jsonErr := json.Marshal(standards); jsonErr == nil {
			if err := r.Redis.Set(ctx, standardsCacheKey, raw, r.CacheTTL).Err(); err != nil {
				logger.Log.Warn("standards cache write failed", zap.Error(err))
			}
		}
	}

	return standards, nil
}
