package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-redirect/internal/dto"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/service"
	"shortlink-redirect/response"
)

// LinkHandler 管理端接口，多段短路径需要 URL 编码（team%2Fdocs）
type LinkHandler struct {
	links *service.LinkService
}

func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

// Create POST /api/links
func (h *LinkHandler) Create(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(c, err, &req))
		return
	}

	link, err := h.links.Create(c.Request.Context(), req)
	if err != nil {
		zap.L().Warn("Short link creation failed",
			zap.Error(err),
			zap.String("short_path", req.ShortPath),
		)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(link, i18n.T(c.Request.Context(), "LinkCreated", nil)))
}

// List GET /api/links?page=1&size=10&q=docs
func (h *LinkHandler) List(c *gin.Context) {
	var q dto.ListLinksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindingError(c, err, &q))
		return
	}

	page, err := h.links.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(page, "success"))
}

// Update PUT /api/links/:short_path
func (h *LinkHandler) Update(c *gin.Context) {
	shortPath := c.Param("short_path")
	var req dto.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(c, err, &req))
		return
	}

	link, err := h.links.Update(c.Request.Context(), shortPath, req)
	if err != nil {
		zap.L().Warn("Short link update failed",
			zap.Error(err),
			zap.String("short_path", shortPath),
		)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(link, i18n.T(c.Request.Context(), "LinkUpdated", nil)))
}

// SetDeprecated PUT /api/links/:short_path/deprecated
func (h *LinkHandler) SetDeprecated(c *gin.Context) {
	shortPath := c.Param("short_path")
	var req dto.DeprecateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(c, err, &req))
		return
	}

	link, err := h.links.SetDeprecated(c.Request.Context(), shortPath, *req.Deprecated)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(link, i18n.T(c.Request.Context(), "LinkUpdated", nil)))
}

// Delete DELETE /api/links/:short_path
func (h *LinkHandler) Delete(c *gin.Context) {
	shortPath := c.Param("short_path")
	if err := h.links.Delete(c.Request.Context(), shortPath); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "LinkDeleted", nil)))
}
