package services

import (
	"errors"

	"citylink/internal/models"
	"citylink/internal/store"
)

// 业务错误。除 ErrTooManyConflicts 外都在任何写入发生之前被检出，
// 永远不会触发重试。
var (
	// ErrNotFound 内容不存在（与存储层哨兵相同，调用方只需认一个）
	ErrNotFound = store.ErrNotFound
	// ErrInvalidVariant 对不支持的内容类型执行了投票/问卷操作
	ErrInvalidVariant = models.ErrInvalidVariant
	// ErrOptionNotFound 选项 ID 不存在
	ErrOptionNotFound = errors.New("option not found")
	// ErrExpired 投票/问卷已截止
	ErrExpired = errors.New("voting has ended")
	// ErrMultipleAnswersNotAllowed 单选问卷收到了多个选项
	ErrMultipleAnswersNotAllowed = errors.New("multiple answers not allowed")
	// ErrInvalidInput 创建内容时的参数错误
	ErrInvalidInput = errors.New("invalid content input")
	// ErrTooManyConflicts 同一内容上的并发写入过于频繁，重试次数用尽。
	// 调用方可以安全地整体重试。
	ErrTooManyConflicts = errors.New("too many concurrent updates, try again")
)
