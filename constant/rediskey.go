package constant

import (
	"fmt"
	"time"
)

const (
	BasePrefix = "redirect:"
)

// Redis 键模板
const (
	RedirectKey = BasePrefix + "%s" // redirect:<short_path>
)

// DefaultRedirectTTL 解析结果缓存时长
const DefaultRedirectTTL = 300 * time.Second

// GetRedirectKey 生成解析结果缓存键（格式：redirect:<short_path>）
func GetRedirectKey(shortPath string) string {
	return fmt.Sprintf(RedirectKey, shortPath)
}
