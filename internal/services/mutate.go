package services

import (
	"context"
	"errors"
	"time"

	"citylink/internal/models"
	"citylink/internal/store"
)

// maxMutateAttempts 同一次操作允许的 读-算-写 轮数上限
const maxMutateAttempts = 5

// mutate 乐观并发的读改写循环：读出当前文档和版本号，跑一遍纯函数
// transform，再按版本号条件写回。业务错误直接返回、绝不重试；
// 只有版本冲突（并发写入者抢先落盘）才整轮重来。
func (s *FeedService) mutate(ctx context.Context, itemID string, transform func(*models.ContentItem) error) (*models.ContentItem, error) {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		item, version, err := s.store.Get(ctx, itemID)
		if err != nil {
			return nil, err
		}

		if err := transform(item); err != nil {
			return nil, err
		}
		item.UpdatedAt = time.Now()

		err = s.store.Put(ctx, itemID, item, version)
		if err == nil {
			// 失效发生在写入之后：与写入并发的 GetItem 可能把旧文档
			// 重新放进缓存，最长脏读一个 itemCacheTTL
			invalidateItemCache(itemID)
			return item, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		// 冲突：文档已被别人改过，带新版本重读重算
	}
	return nil, ErrTooManyConflicts
}
