package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"shortlink-redirect/constant"
	"shortlink-redirect/internal/model"
)

// Kind 解析结果分类
type Kind string

const (
	KindNone       Kind = "none" // 保留页面，不重定向
	KindDirect     Kind = "direct"
	KindDeprecated Kind = "deprecated"
	KindPrivate    Kind = "private"
	KindNotFound   Kind = "not_found"
)

// Decision 解析结果。私密链接的 Destination 只会是密码页
type Decision struct {
	Kind          Kind
	Destination   string
	ShortPath     string
	CustomMessage *string
}

// Redirects 保留页面以外的结果都需要重定向
func (d Decision) Redirects() bool {
	return d.Kind != KindNone
}

// Cache 解析结果缓存，不可用时表现为未命中
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// LinkFinder 存储错误已在实现内部按未找到处理
type LinkFinder interface {
	FindByShortPath(ctx context.Context, shortPath string) (*model.Link, bool)
}

// cacheEntry 缓存中的 JSON 结构
type cacheEntry struct {
	RedirectURL   string  `json:"redirect_url"`
	Deprecated    bool    `json:"deprecated"`
	Private       bool    `json:"private,omitempty"`
	ShortPath     string  `json:"short_path,omitempty"`
	CustomMessage *string `json:"custom_message,omitempty"`
}

// lookupTimeout 存储查询与缓存回填的上限，与请求是否取消无关
const lookupTimeout = 5 * time.Second

// Resolver 短路径解析：缓存 -> 存储 -> 回填缓存
type Resolver struct {
	cache  Cache
	links  LinkFinder
	ttl    time.Duration
	logger *zap.Logger
}

func NewResolver(cache Cache, links LinkFinder, ttl time.Duration, logger *zap.Logger) *Resolver {
	if ttl <= 0 {
		ttl = constant.DefaultRedirectTTL
	}
	return &Resolver{cache: cache, links: links, ttl: ttl, logger: logger}
}

// Resolve 不返回错误：缓存故障按未命中处理，存储故障按未找到处理
func (r *Resolver) Resolve(ctx context.Context, shortPath string) Decision {
	if constant.IsReservedPath(shortPath) {
		return Decision{Kind: KindNone, ShortPath: shortPath}
	}

	// 客户端断开后查询照常完成，取消不能被当成未找到写进缓存
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
	defer cancel()

	key := constant.GetRedirectKey(shortPath)
	if raw, ok := r.cache.Get(ctx, key); ok {
		if d, ok := r.decode(shortPath, raw); ok {
			return d
		}
	}

	link, found := r.links.FindByShortPath(ctx, shortPath)
	d, entry := classify(shortPath, link, found)

	// 只在存储查询完成后回填
	if raw, err := json.Marshal(entry); err == nil {
		r.cache.Set(ctx, key, raw, r.ttl)
	} else {
		r.logger.Warn("Failed to encode cache entry", zap.String("short_path", shortPath), zap.Error(err))
	}
	return d
}

func classify(shortPath string, link *model.Link, found bool) (Decision, cacheEntry) {
	switch {
	case !found:
		return Decision{Kind: KindNotFound, Destination: constant.InvalidLinkPage, ShortPath: shortPath},
			cacheEntry{RedirectURL: constant.InvalidLinkPage}
	case link.Deprecated:
		dest := constant.DeprecatedPageURL(shortPath)
		return Decision{Kind: KindDeprecated, Destination: dest, ShortPath: shortPath},
			cacheEntry{RedirectURL: dest, Deprecated: true}
	case link.Private:
		// 真实地址只能通过密码校验获得
		dest := constant.PasswordPageURL(shortPath)
		return Decision{Kind: KindPrivate, Destination: dest, ShortPath: shortPath, CustomMessage: link.CustomMessage},
			cacheEntry{RedirectURL: dest, Private: true, ShortPath: shortPath, CustomMessage: link.CustomMessage}
	default:
		return Decision{Kind: KindDirect, Destination: link.RedirectURL, ShortPath: shortPath},
			cacheEntry{RedirectURL: link.RedirectURL}
	}
}

func (r *Resolver) decode(shortPath string, raw []byte) (Decision, bool) {
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.logger.Warn("Corrupt cache entry, falling back to store",
			zap.String("short_path", shortPath),
			zap.Error(err),
		)
		return Decision{}, false
	}
	if entry.RedirectURL == "" && !entry.Private {
		return Decision{}, false
	}

	switch {
	case entry.Private:
		// 目标地址按路径重新生成，缓存内容不会被直接当作重定向地址
		return Decision{
			Kind:          KindPrivate,
			Destination:   constant.PasswordPageURL(shortPath),
			ShortPath:     shortPath,
			CustomMessage: entry.CustomMessage,
		}, true
	case entry.Deprecated:
		return Decision{Kind: KindDeprecated, Destination: entry.RedirectURL, ShortPath: shortPath}, true
	case entry.RedirectURL == constant.InvalidLinkPage:
		return Decision{Kind: KindNotFound, Destination: entry.RedirectURL, ShortPath: shortPath}, true
	default:
		return Decision{Kind: KindDirect, Destination: entry.RedirectURL, ShortPath: shortPath}, true
	}
}
