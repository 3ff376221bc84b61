package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExportCache stores rendered export documents for completed queries. A
// completed query never changes, so entries only expire by TTL.
type ExportCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewExportCache(rdb *redis.Client, ttl time.Duration) *ExportCache {
	return &ExportCache{rdb: rdb, ttl: ttl, prefix: "notebooklm:export:"}
}

func (c *ExportCache) key(notebookId string, queryId uint) string {
	return fmt.Sprintf("%s%s:%d", c.prefix, notebookId, queryId)
}

// Get reports a miss as (nil, false, nil).
func (c *ExportCache) Get(ctx context.Context, notebookId string, queryId uint) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, c.key(notebookId, queryId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *ExportCache) Set(ctx context.Context, notebookId string, queryId uint, data []byte) error {
	return c.rdb.Set(ctx, c.key(notebookId, queryId), data, c.ttl).Err()
}
