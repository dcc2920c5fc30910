package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortlink-redirect/constant"
	"shortlink-redirect/internal/dto"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/service"
	"shortlink-redirect/response"
)

const publicListLimit = 200

// CircuitState 缓存熔断器状态
type CircuitState interface {
	State() string
}

// PageHandler 站内页面，界面渲染不在本服务内，只返回页面所需数据
type PageHandler struct {
	resolver *service.Resolver
	links    *service.LinkService
	cache    CircuitState
}

func NewPageHandler(resolver *service.Resolver, links *service.LinkService, cache CircuitState) *PageHandler {
	return &PageHandler{resolver: resolver, links: links, cache: cache}
}

// URLs GET /urls
func (h *PageHandler) URLs(c *gin.Context) {
	list, err := h.links.ListPublic(c.Request.Context(), publicListLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(list, "success"))
}

// InvalidLink GET /invalid-link
func (h *PageHandler) InvalidLink(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.ErrorBody{Error: i18n.T(c.Request.Context(), "LinkNotFound", nil)})
}

// Deprecated GET /deprecated?dpl=<short_path>
func (h *PageHandler) Deprecated(c *gin.Context) {
	c.JSON(http.StatusOK, dto.DeprecatedPageResponse{
		ShortPath: c.Query(constant.DeprecatedPathParam),
		Message:   i18n.T(c.Request.Context(), "LinkDeprecated", nil),
	})
}

// AccessDenied GET /access-denied
func (h *PageHandler) AccessDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, response.ErrorBody{Error: i18n.T(c.Request.Context(), "AccessDenied", nil)})
}

// PasswordProtected GET /password-protected?path=<short_path>
// 提示语取自解析结果，不会读取目标地址
func (h *PageHandler) PasswordProtected(c *gin.Context) {
	ctx := c.Request.Context()
	shortPath := c.Query(constant.ProtectedPathParam)
	if shortPath == "" {
		c.JSON(http.StatusBadRequest, response.ErrorBody{Error: i18n.T(ctx, "InvalidRequest", nil)})
		return
	}

	d := h.resolver.Resolve(ctx, shortPath)
	switch d.Kind {
	case service.KindPrivate:
		c.JSON(http.StatusOK, dto.PasswordPageResponse{ShortPath: shortPath, CustomMessage: d.CustomMessage})
	case service.KindNotFound, service.KindNone:
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: i18n.T(ctx, "LinkNotFound", nil)})
	default:
		c.JSON(http.StatusBadRequest, response.ErrorBody{Error: i18n.T(ctx, "LinkNotPrivate", nil)})
	}
}

// Health GET /health，缓存不可用不影响结果
func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Cache: h.cache.State()})
}
