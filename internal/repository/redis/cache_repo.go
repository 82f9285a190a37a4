package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/clients"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// ttlJitter — доля TTL, на которую разносятся сроки жизни ключей.
const ttlJitter = 0.1

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.CategoryInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.CategoryInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCategory возвращает категорию из кэша. Повреждённые записи считаются промахом.
func (r *CacheRepo) GetCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryInfo, bool, error) {
	key := r.categoryKey(id)

	data, err := r.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil // cache miss
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := r.unmarshalCategoryFromCache(data)
	if err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		r.evict(ctx, key)
		return nil, false, nil
	}

	if model.ID != id {
		r.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", id, model.ID)
		r.evict(ctx, key)
		return nil, false, nil
	}

	return r.conv.ToUseCase(model), true, nil
}

// SetCategory кэширует категорию; TTL получает джиттер, чтобы ключи не истекали одновременно.
func (r *CacheRepo) SetCategory(ctx context.Context, category *usecase.CategoryInfo) error {
	data, err := r.marshalCategoryForCache(r.conv.ToRedisModel(category))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ttl := jitter.Duration(r.cfg.CategoryTTL, ttlJitter)
	if err := r.client.Client.Set(ctx, r.categoryKey(category.ID), data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteCategory удаляет категорию из кэша по ID
func (r *CacheRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Client.Del(ctx, r.categoryKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CacheRepo) evict(ctx context.Context, key string) {
	if err := r.client.Client.Del(ctx, key).Err(); err != nil {
		r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (r *CacheRepo) marshalCategoryForCache(model *converter.CategoryInfoRedisModel) ([]byte, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (r *CacheRepo) unmarshalCategoryFromCache(data []byte) (*converter.CategoryInfoRedisModel, error) {
	var model converter.CategoryInfoRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// categoryKey возвращает Redis-ключ для одной категории
func (r *CacheRepo) categoryKey(id uuid.UUID) string {
	return fmt.Sprintf("category:%s", id)
}
