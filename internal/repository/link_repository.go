package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortlink-redirect/internal/model"
)

// ErrLinkNotFound 短路径不存在
var ErrLinkNotFound = errors.New("link not found")

// LinkRepository 链接表访问
type LinkRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLinkRepository(db *gorm.DB, logger *zap.Logger) *LinkRepository {
	return &LinkRepository{db: db, logger: logger}
}

// FindByShortPath 解析路径上使用的单行查询
// 存储错误只记录日志并按未找到处理，绝不向调用方抛出
func (r *LinkRepository) FindByShortPath(ctx context.Context, shortPath string) (*model.Link, bool) {
	link, err := r.Get(ctx, shortPath)
	if err == nil {
		return link, true
	}
	if !errors.Is(err, ErrLinkNotFound) {
		r.logger.Error("Link lookup failed, treating as not found",
			zap.String("short_path", shortPath),
			zap.String("operation", "find_by_short_path"),
			zap.Error(err),
		)
	}
	return nil, false
}

// Get 管理端使用，区分未找到与存储错误
func (r *LinkRepository) Get(ctx context.Context, shortPath string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("short_path = ?", shortPath).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}

func (r *LinkRepository) Exists(ctx context.Context, shortPath string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Link{}).Where("short_path = ?", shortPath).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count links: %w", err)
	}
	return count > 0, nil
}

func (r *LinkRepository) Create(ctx context.Context, link *model.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

func (r *LinkRepository) Save(ctx context.Context, link *model.Link) error {
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

// Delete 删除短链，访问记录保留（无外键）
func (r *LinkRepository) Delete(ctx context.Context, shortPath string) error {
	result := r.db.WithContext(ctx).Where("short_path = ?", shortPath).Delete(&model.Link{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// List 分页查询，keyword 按短路径模糊匹配
func (r *LinkRepository) List(ctx context.Context, page, size int, keyword string) ([]model.Link, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Link{})
	if keyword != "" {
		db = db.Where("short_path LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count links: %w", err)
	}
	if total == 0 {
		return []model.Link{}, 0, nil
	}

	var links []model.Link
	if err := db.
		Limit(size).
		Offset((page - 1) * size).
		Order("id DESC").
		Find(&links).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list links: %w", err)
	}
	return links, total, nil
}

// ListPublic 公开页面展示的链接：未废弃且非私密
func (r *LinkRepository) ListPublic(ctx context.Context, limit int) ([]model.Link, error) {
	var links []model.Link
	if err := r.db.WithContext(ctx).
		Where("deprecated = ? AND private = ?", false, false).
		Order("short_path ASC").
		Limit(limit).
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list public links: %w", err)
	}
	return links, nil
}
