package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	redis "github.com/redis/go-redis/v9"
)

const (
	documentVersionHash = "document:version"
	documentTTL         = time.Hour
)

func documentKey(id string) string {
	return "document:" + id
}

var _ DocumentCache = (*RedisDocumentCache)(nil)

// RedisDocumentCache keeps hot documents and their version numbers in
// Redis. Entries are invalidated on every mutation and expire after an
// hour regardless.
type RedisDocumentCache struct {
	client *redis.Client
}

func NewRedisDocumentCache(addr string) *RedisDocumentCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
	})

	return &RedisDocumentCache{client: client}
}

func (r *RedisDocumentCache) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	res := r.client.Get(ctx, documentKey(id))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	doc := &model.Document{}
	if err := json.Unmarshal(buf, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *RedisDocumentCache) SetDocument(ctx context.Context, doc *model.Document) error {
	marshal, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Set(ctx, documentKey(doc.ID), marshal, documentTTL).Err(); err != nil {
			return err
		}

		return p.HSet(ctx, documentVersionHash, doc.ID, doc.Version).Err()
	})

	return err
}

func (r *RedisDocumentCache) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Del(ctx, documentKey(id)).Err(); err != nil {
			return err
		}

		return p.HDel(ctx, documentVersionHash, id).Err()
	})

	return err
}

func (r *RedisDocumentCache) GetDocumentVersion(ctx context.Context, id string) (int64, error) {
	res := r.client.HGet(ctx, documentVersionHash, id)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return 0, nil
		}
		return 0, res.Err()
	}

	return strconv.ParseInt(res.Val(), 10, 64)
}
