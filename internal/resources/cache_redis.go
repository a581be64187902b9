// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package resources

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/keeply/keeply/internal/platform/constants"
	"github.com/keeply/keeply/internal/platform/ctxutil"
	"github.com/keeply/keeply/pkg/pagination"
)

// CachedRepository decorates a [Repository] with a Redis read-through cache
// on single-resource lookups. Cache failures degrade to the underlying
// store; a broken cache never fails a request.
//
// List queries are not cached: invalidating page permutations is not worth
// the staleness bookkeeping for this access pattern.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
}

// NewCachedRepository wraps the given repository with the Redis cache.
func NewCachedRepository(inner Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{inner: inner, client: client}
}

// FindByOwnerAndID serves the resource from cache when present, otherwise
// reads through and populates the cache.
func (repository *CachedRepository) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*Resource, error) {
	key := cacheKey(ownerID, id)

	cached, err := repository.client.Get(ctx, key).Bytes()
	if err == nil {
		var resource Resource
		if unmarshalErr := json.Unmarshal(cached, &resource); unmarshalErr == nil {
			return &resource, nil
		}
		// Corrupt entry. Drop it and fall through to the store.
		repository.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		ctxutil.GetLogger(ctx).Warn("resource cache read failed", "error", err)
	}

	resource, err := repository.inner.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, key, resource)

	return resource, nil
}

// ListByOwner delegates to the underlying store.
func (repository *CachedRepository) ListByOwner(ctx context.Context, ownerID string, params pagination.Params) ([]Resource, int, error) {
	return repository.inner.ListByOwner(ctx, ownerID, params)
}

// Create delegates to the underlying store and primes the cache.
func (repository *CachedRepository) Create(ctx context.Context, resource *Resource) (*Resource, error) {
	created, err := repository.inner.Create(ctx, resource)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, cacheKey(created.OwnerID, created.ID), created)

	return created, nil
}

// Update delegates to the underlying store and replaces the cached entry.
func (repository *CachedRepository) Update(ctx context.Context, ownerID, id, title, content string) (*Resource, error) {
	updated, err := repository.inner.Update(ctx, ownerID, id, title, content)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, cacheKey(ownerID, id), updated)

	return updated, nil
}

// Delete delegates to the underlying store and invalidates the cache.
func (repository *CachedRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := repository.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if err := repository.client.Del(ctx, cacheKey(ownerID, id)).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("resource cache invalidation failed", "error", err)
	}

	return nil
}

func (repository *CachedRepository) store(ctx context.Context, key string, resource *Resource) {
	payload, err := json.Marshal(resource)
	if err != nil {
		return
	}

	if err := repository.client.Set(ctx, key, payload, constants.ResourceCacheTTL).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("resource cache write failed", "error", err)
	}
}

func cacheKey(ownerID, id string) string {
	return constants.RedisPrefixResource + ownerID + ":" + id
}
