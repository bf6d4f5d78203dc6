package store

import (
	"context"
	"errors"

	"citylink/internal/models"
)

// 存储层错误，业务层通过 errors.Is 判断
var (
	// ErrNotFound 内容不存在
	ErrNotFound = errors.New("content item not found")
	// ErrConflict 条件写失败：文档在读取之后被其他写入者修改过
	ErrConflict = errors.New("content item changed since read")
	// ErrExists 插入时 ID 已被占用
	ErrExists = errors.New("content item already exists")
)

// Version is the optimistic-concurrency token attached to every stored
// document. Opaque to callers apart from passing it back into Put.
type Version int64

// Gateway 内容存储网关。单文档条件写是唯一的隔离单元：
// Put 仅在文档版本仍等于 expected 时生效，否则返回 ErrConflict。
type Gateway interface {
	Get(ctx context.Context, id string) (*models.ContentItem, Version, error)
	Put(ctx context.Context, id string, item *models.ContentItem, expected Version) error
	Insert(ctx context.Context, item *models.ContentItem) error
	List(ctx context.Context) ([]*models.ContentItem, error)
}
