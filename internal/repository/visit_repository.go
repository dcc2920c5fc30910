package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shortlink-redirect/internal/model"
)

// VisitRepository 访问队列与 IP 映射
type VisitRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

// NewVisitRepository nodeID 取值 0-1023，多实例部署时需各不相同
func NewVisitRepository(db *gorm.DB, nodeID int64) (*VisitRepository, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to init snowflake node: %w", err)
	}
	return &VisitRepository{db: db, node: node}, nil
}

// UpsertIdentity 返回 IP 对应的伪用户 ID
// 已有映射直接复用；并发首访时先写入者胜出，其余请求读回同一个 ID
func (r *VisitRepository) UpsertIdentity(ctx context.Context, ip string, newID func() string) (string, error) {
	existing, err := r.findIdentity(ctx, ip)
	if err != nil {
		return "", err
	}
	if existing.ID != 0 {
		return existing.UserID, nil
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip_address"}},
		DoNothing: true,
	}).Create(&model.IdentityMapping{IPAddress: ip, UserID: newID()}).Error; err != nil {
		return "", fmt.Errorf("failed to upsert identity mapping: %w", err)
	}

	stored, err := r.findIdentity(ctx, ip)
	if err != nil {
		return "", err
	}
	if stored.ID == 0 {
		return "", fmt.Errorf("identity mapping for %s missing after upsert", ip)
	}
	return stored.UserID, nil
}

func (r *VisitRepository) findIdentity(ctx context.Context, ip string) (*model.IdentityMapping, error) {
	var m model.IdentityMapping
	if err := r.db.WithContext(ctx).Where("ip_address = ?", ip).Limit(1).Find(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to query identity mapping: %w", err)
	}
	return &m, nil
}

// Enqueue 追加一条待处理访问记录
func (r *VisitRepository) Enqueue(ctx context.Context, item *model.VisitQueueItem) error {
	if item.ID == 0 {
		item.ID = r.node.Generate().Int64()
	}
	if item.VisitedAt.IsZero() {
		item.VisitedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to enqueue visit: %w", err)
	}
	return nil
}

// Pending 按 ID 顺序读取尚未处理的访问记录，供下游聚合消费
func (r *VisitRepository) Pending(ctx context.Context, limit int) ([]model.VisitQueueItem, error) {
	var items []model.VisitQueueItem
	if err := r.db.WithContext(ctx).
		Where("processed_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to read visit queue: %w", err)
	}
	return items, nil
}
