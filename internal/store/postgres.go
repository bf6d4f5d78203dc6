package store

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"citylink/internal/models"
)

// ContentRow 内容文档表：整份文档存 jsonb，版本号单独一列做乐观锁
type ContentRow struct {
	ID      string `gorm:"primaryKey;size:36"`
	Doc     []byte `gorm:"type:jsonb;not null"`
	Version int64  `gorm:"not null"`
}

func (ContentRow) TableName() string {
	return "content_items"
}

// PostgresStore 基于 PostgreSQL 的内容存储。
// 条件写靠 UPDATE ... WHERE id = ? AND version = ? 的命中行数判定。
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&ContentRow{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.ContentItem, Version, error) {
	var row ContentRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	var item models.ContentItem
	if err := json.Unmarshal(row.Doc, &item); err != nil {
		return nil, 0, err
	}
	return &item, Version(row.Version), nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, item *models.ContentItem, expected Version) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&ContentRow{}).
		Where("id = ? AND version = ?", id, int64(expected)).
		Updates(map[string]interface{}{
			"doc":     data,
			"version": int64(expected) + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 没更新到行：区分版本被抢和内容不存在
	var count int64
	if err := s.db.WithContext(ctx).Model(&ContentRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (s *PostgresStore) Insert(ctx context.Context, item *models.ContentItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Create(&ContentRow{ID: item.ID, Doc: data, Version: 1}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrExists
	}
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.ContentItem, error) {
	var rows []ContentRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*models.ContentItem, 0, len(rows))
	for _, row := range rows {
		var item models.ContentItem
		if err := json.Unmarshal(row.Doc, &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
