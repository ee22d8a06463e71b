package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

const dashboardKey = "dashboard:summary"

// DashboardCache keeps the last computed dashboard in Redis for a short TTL.
type DashboardCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewDashboardCache(rdb redis.Cmdable, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func (c *DashboardCache) Get(ctx context.Context) (*entity.Dashboard, bool, error) {
	var d entity.Dashboard
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, dashboardKey, &d)
	if err != nil || !ok {
		return nil, false, err
	}
	return &d, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, d *entity.Dashboard) error {
	if c.ttl <= 0 {
		return nil
	}
	return helpers.RedisSetJSON(ctx, c.rdb, dashboardKey, d, c.ttl)
}

func (c *DashboardCache) Invalidate(ctx context.Context) error {
	return helpers.RedisDel(ctx, c.rdb, dashboardKey)
}
