package handler

import (
	"github.com/gin-gonic/gin"
	thirdPartyI18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"

	"shortlink-redirect/constant"
	"shortlink-redirect/internal/middleware"
)

// Router 路由依赖
type Router struct {
	Redirect   *RedirectHandler
	Password   *PasswordHandler
	Pages      *PageHandler
	Links      *LinkHandler
	Visits     *VisitHandler
	Bundle     *thirdPartyI18n.Bundle
	AdminToken string
	Limiter    *middleware.RateLimiter // nil 表示不限流
	Logger     *zap.Logger
}

// Engine 注册全部路由
func (r *Router) Engine() *gin.Engine {
	e := gin.New()
	// 管理端路由中 team%2Fdocs 作为一个参数
	e.UseRawPath = true
	e.UnescapePathValues = true

	e.Use(gin.Recovery())
	e.Use(middleware.GlobalErrorMiddleware())
	e.Use(middleware.ZapGinLogger(r.Logger))
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.I18nMiddleware(r.Bundle))

	e.GET("/", r.Pages.URLs)
	e.GET(constant.URLsPage, r.Pages.URLs)
	e.GET(constant.InvalidLinkPage, r.Pages.InvalidLink)
	e.GET(constant.DeprecatedPage, r.Pages.Deprecated)
	e.GET(constant.AccessDeniedPage, r.Pages.AccessDenied)
	e.GET(constant.PasswordProtectedPage, r.Pages.PasswordProtected)
	e.GET("/health", r.Pages.Health)

	api := e.Group("/api")
	{
		verify := []gin.HandlerFunc{r.Password.Verify}
		if r.Limiter != nil {
			verify = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(r.Limiter)}, verify...)
		}
		api.POST("/verify-password", verify...)

		admin := api.Group("", middleware.AdminAuthMiddleware(r.AdminToken))
		admin.POST("/links", r.Links.Create)
		admin.GET("/links", r.Links.List)
		admin.PUT("/links/:short_path", r.Links.Update)
		admin.PUT("/links/:short_path/deprecated", r.Links.SetDeprecated)
		admin.DELETE("/links/:short_path", r.Links.Delete)
		admin.GET("/visits/pending", r.Visits.Pending)
	}

	// 其余 GET 请求都按短路径解析
	e.NoRoute(r.Redirect.Redirect)
	return e
}
