package model

import "time"

// MaxUserAgentLen 与 VisitQueueItem.UserAgent 的列宽一致
const MaxUserAgentLen = 512

// VisitQueueItem 待下游聚合处理的访问记录，只追加
type VisitQueueItem struct {
	ID          int64      `gorm:"primaryKey;autoIncrement:false" json:"id"` // snowflake
	ShortPath   string     `gorm:"index;size:128;not null" json:"short_path"`
	IPAddress   string     `gorm:"size:64" json:"ip_address"`
	UserAgent   string     `gorm:"size:512" json:"user_agent"`
	Browser     string     `gorm:"size:32" json:"browser"`
	OS          string     `gorm:"column:os;size:32" json:"os"`
	Environment string     `gorm:"size:32" json:"environment"`
	Version     string     `gorm:"size:64" json:"version"`
	UserID      string     `gorm:"size:36;index" json:"user_id"`
	VisitedAt   time.Time  `gorm:"index;not null" json:"visited_at"`
	ProcessedAt *time.Time `gorm:"index" json:"processed_at,omitempty"`
}

func (VisitQueueItem) TableName() string {
	return "visit_queue"
}

// IdentityMapping IP -> 伪用户 ID，每个 IP 一行
type IdentityMapping struct {
	BaseModel
	IPAddress string `gorm:"uniqueIndex;size:64;not null" json:"ip_address"`
	UserID    string `gorm:"size:36;not null" json:"user_id"`
}

func (IdentityMapping) TableName() string {
	return "ip_user_mappings"
}
