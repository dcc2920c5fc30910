package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"shortlink-redirect/constant"
	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/dto"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/model"
	"shortlink-redirect/internal/repository"
	"shortlink-redirect/response"
)

// CacheInvalidator 管理端修改后删除解析缓存
type CacheInvalidator interface {
	Delete(ctx context.Context, key string) bool
}

// LinkService 管理端短链增删改查
type LinkService struct {
	links  *repository.LinkRepository
	cache  CacheInvalidator
	logger *zap.Logger
}

func NewLinkService(links *repository.LinkRepository, cache CacheInvalidator, logger *zap.Logger) *LinkService {
	return &LinkService{links: links, cache: cache, logger: logger}
}

// Create 创建短链
func (s *LinkService) Create(ctx context.Context, req dto.CreateLinkRequest) (*model.Link, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidRequestError(i18n.T(ctx, err.Error(), nil))
	}
	if constant.IsReservedPath(req.ShortPath) {
		return nil, apperrors.InvalidRequestError(i18n.T(ctx, "ShortPathReserved", map[string]interface{}{"ShortPath": req.ShortPath}))
	}

	exists, err := s.links.Exists(ctx, req.ShortPath)
	if err != nil {
		return nil, s.systemError(ctx, "create", req.ShortPath, err)
	}
	if exists {
		return nil, apperrors.ConflictError(i18n.T(ctx, "ShortPathExists", map[string]interface{}{"ShortPath": req.ShortPath}))
	}

	link := &model.Link{
		ShortPath:     req.ShortPath,
		RedirectURL:   req.RedirectURL,
		Deprecated:    req.Deprecated,
		Private:       req.Private,
		Password:      req.Password,
		CustomMessage: req.CustomMessage,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, s.systemError(ctx, "create", req.ShortPath, err)
	}

	// 之前的访问可能缓存了 not_found
	s.invalidate(ctx, link.ShortPath)
	return link, nil
}

// List 分页查询
func (s *LinkService) List(ctx context.Context, q dto.ListLinksQuery) (*response.PageResponse[model.Link], error) {
	links, total, err := s.links.List(ctx, q.Page, q.Size, q.Q)
	if err != nil {
		return nil, s.systemError(ctx, "list", "", err)
	}
	return response.NewPage(links, q.Page, q.Size, total), nil
}

// Update 修改目标地址、私密设置或提示语
func (s *LinkService) Update(ctx context.Context, shortPath string, req dto.UpdateLinkRequest) (*model.Link, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidRequestError(i18n.T(ctx, err.Error(), nil))
	}

	link, err := s.get(ctx, shortPath)
	if err != nil {
		return nil, err
	}
	if req.RedirectURL != nil {
		link.RedirectURL = *req.RedirectURL
	}
	if req.Private != nil {
		link.Private = *req.Private
	}
	if req.Password != nil {
		link.Password = req.Password
	}
	if req.CustomMessage != nil {
		link.CustomMessage = req.CustomMessage
	}
	if link.Private && (link.Password == nil || *link.Password == "") {
		return nil, apperrors.InvalidRequestError(i18n.T(ctx, dto.ErrPasswordRequired.Error(), nil))
	}

	if err := s.links.Save(ctx, link); err != nil {
		return nil, s.systemError(ctx, "update", shortPath, err)
	}
	s.invalidate(ctx, shortPath)
	return link, nil
}

// SetDeprecated 废弃或恢复短链
func (s *LinkService) SetDeprecated(ctx context.Context, shortPath string, deprecated bool) (*model.Link, error) {
	link, err := s.get(ctx, shortPath)
	if err != nil {
		return nil, err
	}
	link.Deprecated = deprecated
	if err := s.links.Save(ctx, link); err != nil {
		return nil, s.systemError(ctx, "set_deprecated", shortPath, err)
	}
	s.invalidate(ctx, shortPath)
	return link, nil
}

// Delete 删除短链，历史访问记录保留
func (s *LinkService) Delete(ctx context.Context, shortPath string) error {
	if err := s.links.Delete(ctx, shortPath); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return apperrors.NotFoundError(i18n.T(ctx, "LinkNotFound", nil))
		}
		return s.systemError(ctx, "delete", shortPath, err)
	}
	s.invalidate(ctx, shortPath)
	return nil
}

// ListPublic /urls 页面使用
func (s *LinkService) ListPublic(ctx context.Context, limit int) ([]dto.PublicLink, error) {
	links, err := s.links.ListPublic(ctx, limit)
	if err != nil {
		return nil, s.systemError(ctx, "list_public", "", err)
	}
	result := make([]dto.PublicLink, 0, len(links))
	for _, l := range links {
		result = append(result, dto.PublicLink{ShortPath: l.ShortPath, RedirectURL: l.RedirectURL})
	}
	return result, nil
}

func (s *LinkService) get(ctx context.Context, shortPath string) (*model.Link, error) {
	link, err := s.links.Get(ctx, shortPath)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, apperrors.NotFoundError(i18n.T(ctx, "LinkNotFound", nil))
		}
		return nil, s.systemError(ctx, "get", shortPath, err)
	}
	return link, nil
}

// invalidate 删除失败时旧结果最多保留一个 TTL
func (s *LinkService) invalidate(ctx context.Context, shortPath string) {
	key := constant.GetRedirectKey(shortPath)
	if !s.cache.Delete(ctx, key) {
		s.logger.Warn("Cache invalidation skipped, entry expires with TTL",
			zap.String("short_path", shortPath),
			zap.String("cache_key", key),
		)
	}
}

func (s *LinkService) systemError(ctx context.Context, op, shortPath string, err error) error {
	s.logger.Error("Link store operation failed",
		zap.String("operation", op),
		zap.String("short_path", shortPath),
		zap.Error(err),
	)
	return apperrors.SystemError(i18n.T(ctx, "SystemError", nil), err)
}
