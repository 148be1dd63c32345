package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// BadgeStore 告警徽标缓存
// 设计说明：
// 1. 把"可见告警数 + 未读标记"写入Redis，供门店网关/首页
//    直接读取，避免每次渲染徽标都打到本服务
// 2. 写入是尽力而为的（local-first）：失败只向上返回错误记日志，
//    本地告警存储仍是权威，读取方拿不到缓存时回源到告警接口
// 3. Key设计：alert:badge（Hash：count、unseen、updated_at）
type BadgeStore struct {
	client *redis.Client
}

// NewBadgeStore 创建徽标缓存
func NewBadgeStore(client *redis.Client) *BadgeStore {
	return &BadgeStore{client: client}
}

const (
	badgeKey = "alert:badge"

	// badgeTTL 缓存过期时间
	// 超过两个刷新周期没有更新说明服务异常，让读取方回源
	badgeTTL = 10 * time.Minute
)

// Update 写入最新徽标状态
func (s *BadgeStore) Update(ctx context.Context, visibleCount int, unseen bool) error {
	err := s.client.HSet(ctx, badgeKey, map[string]interface{}{
		"count":      visibleCount,
		"unseen":     boolToInt(unseen),
		"updated_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return apperrors.Wrap(err, "写入告警徽标缓存失败")
	}

	if err := s.client.Expire(ctx, badgeKey, badgeTTL).Err(); err != nil {
		return apperrors.Wrap(err, "设置徽标缓存过期时间失败")
	}

	return nil
}

// Get 读取徽标状态（缓存未命中时返回ErrRedisError，读取方回源）
func (s *BadgeStore) Get(ctx context.Context) (count int, unseen bool, err error) {
	result, err := s.client.HGetAll(ctx, badgeKey).Result()
	if err != nil {
		return 0, false, apperrors.Wrap(err, "读取告警徽标缓存失败")
	}
	if len(result) == 0 {
		return 0, false, apperrors.ErrRedisError
	}

	fmt.Sscanf(result["count"], "%d", &count)
	unseen = result["unseen"] == "1"
	return count, unseen, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
