package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/service"
	"shortlink-redirect/response"
)

// RedirectHandler GET /<short_path>，挂在 NoRoute 上以支持多段路径
type RedirectHandler struct {
	resolver *service.Resolver
	visits   *service.VisitLogger
	notifier *service.Notifier
}

func NewRedirectHandler(resolver *service.Resolver, visits *service.VisitLogger, notifier *service.Notifier) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, visits: visits, notifier: notifier}
}

func (h *RedirectHandler) Redirect(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: i18n.T(c.Request.Context(), "LinkNotFound", nil)})
		return
	}

	// /team/docs/ -> team/docs
	shortPath := strings.Trim(c.Request.URL.Path, "/")
	d := h.resolver.Resolve(c.Request.Context(), shortPath)
	if !d.Redirects() {
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: i18n.T(c.Request.Context(), "LinkNotFound", nil)})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, d.Destination)

	// 响应之后投递，不等待结果
	if c.Request.Method != http.MethodGet || d.Kind == service.KindNotFound {
		return
	}
	now := time.Now()
	ip := c.ClientIP()
	ua := c.Request.UserAgent()
	h.visits.Record(shortPath, service.VisitContext{IPAddress: ip, UserAgent: ua, VisitedAt: now})
	h.notifier.Notify(service.VisitEvent{ShortPath: shortPath, IPAddress: ip, UserAgent: ua, VisitedAt: now})
}
