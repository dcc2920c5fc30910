package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"
)

// 错误文本即 i18n 消息 ID
var (
	ErrLinkNotFound     = errors.New("LinkNotFound")
	ErrLinkNotPrivate   = errors.New("LinkNotPrivate")
	ErrPasswordMismatch = errors.New("PasswordMismatch")
)

// PasswordVerifier 私密链接的密码校验，始终直接查存储，不读写缓存
type PasswordVerifier struct {
	links  LinkFinder
	logger *zap.Logger
}

func NewPasswordVerifier(links LinkFinder, logger *zap.Logger) *PasswordVerifier {
	return &PasswordVerifier{links: links, logger: logger}
}

// Verify 校验通过时返回真实目标地址
// 密码按明文比较，与存储格式一致
func (v *PasswordVerifier) Verify(ctx context.Context, shortPath, password string) (string, error) {
	link, found := v.links.FindByShortPath(ctx, shortPath)
	if !found {
		return "", ErrLinkNotFound
	}
	if !link.Private {
		return "", ErrLinkNotPrivate
	}
	if link.Password == nil || subtle.ConstantTimeCompare([]byte(*link.Password), []byte(password)) != 1 {
		v.logger.Info("Password verification failed", zap.String("short_path", shortPath))
		return "", ErrPasswordMismatch
	}
	return link.RedirectURL, nil
}
