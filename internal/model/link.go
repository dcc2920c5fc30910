package model

// Link 一条短路径到目标地址的映射
type Link struct {
	BaseModel
	ShortPath     string  `gorm:"uniqueIndex;size:128;not null" json:"short_path"`
	RedirectURL   string  `gorm:"size:2048;not null" json:"redirect_url"`
	Deprecated    bool    `gorm:"not null;default:false" json:"deprecated"`
	Private       bool    `gorm:"not null;default:false" json:"private"`
	Password      *string `gorm:"size:255" json:"-"` // 明文存储，见 DESIGN.md
	CustomMessage *string `gorm:"size:1024" json:"custom_message,omitempty"`
}

func (Link) TableName() string {
	return "links"
}
