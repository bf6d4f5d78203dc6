package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"citylink/internal/models"
)

const (
	contentKeyPrefix = "content:"
	contentIndexKey  = "contents"
)

// redisEnvelope 把版本号和文档一起存为一个 JSON 值
type redisEnvelope struct {
	Version Version             `json:"version"`
	Item    *models.ContentItem `json:"item"`
}

// RedisStore keeps every item as a JSON envelope under content:<id>,
// plus an index set with all known ids. Conditional writes go through a
// WATCH transaction so a concurrent writer fails the whole MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func contentKey(id string) string {
	return contentKeyPrefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.ContentItem, Version, error) {
	data, err := s.client.Get(ctx, contentKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	var env redisEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, 0, fmt.Errorf("decode content %s: %w", id, err)
	}
	return env.Item, env.Version, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, item *models.ContentItem, expected Version) error {
	key := contentKey(id)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		var env redisEnvelope
		if err := json.Unmarshal([]byte(data), &env); err != nil {
			return fmt.Errorf("decode content %s: %w", id, err)
		}
		if env.Version != expected {
			return ErrConflict
		}

		next, err := json.Marshal(redisEnvelope{Version: expected + 1, Item: item})
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}, key)

	// EXEC 被 WATCH 打断，说明有并发写入者抢先
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) Insert(ctx context.Context, item *models.ContentItem) error {
	data, err := json.Marshal(redisEnvelope{Version: 1, Item: item})
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, contentKey(item.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return s.client.SAdd(ctx, contentIndexKey, item.ID).Err()
}

func (s *RedisStore) List(ctx context.Context) ([]*models.ContentItem, error) {
	ids, err := s.client.SMembers(ctx, contentIndexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.ContentItem{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, contentKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	items := make([]*models.ContentItem, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			// 索引集合和内容键之间没有事务保证，跳过悬空的 ID
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var env redisEnvelope
		if err := json.Unmarshal([]byte(data), &env); err != nil {
			return nil, err
		}
		items = append(items, env.Item)
	}
	return items, nil
}
