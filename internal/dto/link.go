package dto

import (
	"errors"

	"shortlink-redirect/pkg/utils"
)

// ErrPasswordRequired 私密链接必须设置密码，文本即 i18n 消息 ID
var ErrPasswordRequired = errors.New("PasswordRequired")

// CreateLinkRequest 创建短链
type CreateLinkRequest struct {
	ShortPath     string  `json:"short_path" binding:"required,max=128" msg:"ShortPathInvalid"`
	RedirectURL   string  `json:"redirect_url" binding:"required,url,max=2048" msg:"TargetURLInvalid"`
	Deprecated    bool    `json:"deprecated"`
	Private       bool    `json:"private"`
	Password      *string `json:"password" binding:"omitempty,max=255"`
	CustomMessage *string `json:"custom_message" binding:"omitempty,max=1024"`
}

// Validate 校验 binding 标签表达不了的规则
func (r *CreateLinkRequest) Validate() error {
	if err := utils.ValidateShortPath(r.ShortPath); err != nil {
		return err
	}
	if err := utils.ValidateTargetURL(r.RedirectURL); err != nil {
		return err
	}
	if r.Private && (r.Password == nil || *r.Password == "") {
		return ErrPasswordRequired
	}
	return nil
}

// UpdateLinkRequest 字段为 nil 表示不修改
type UpdateLinkRequest struct {
	RedirectURL   *string `json:"redirect_url" binding:"omitempty,url,max=2048" msg:"TargetURLInvalid"`
	Private       *bool   `json:"private"`
	Password      *string `json:"password" binding:"omitempty,max=255"`
	CustomMessage *string `json:"custom_message" binding:"omitempty,max=1024"`
}

func (r *UpdateLinkRequest) Validate() error {
	if r.RedirectURL != nil {
		return utils.ValidateTargetURL(*r.RedirectURL)
	}
	return nil
}

// DeprecateLinkRequest 废弃/恢复
type DeprecateLinkRequest struct {
	Deprecated *bool `json:"deprecated" binding:"required"`
}

// ListLinksQuery GET /api/links?page=1&size=10&q=docs
type ListLinksQuery struct {
	Page int    `form:"page,default=1" binding:"min=1"`
	Size int    `form:"size,default=10" binding:"min=1,max=100"`
	Q    string `form:"q"`
}
