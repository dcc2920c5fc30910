package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-redirect/internal/dto"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/service"
	"shortlink-redirect/response"
)

type PasswordHandler struct {
	verifier *service.PasswordVerifier
}

func NewPasswordHandler(verifier *service.PasswordVerifier) *PasswordHandler {
	return &PasswordHandler{verifier: verifier}
}

// Verify POST /api/verify-password
func (h *PasswordHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	// 响应体可能包含真实目标地址
	c.Header("Cache-Control", "no-store")

	var req dto.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusBadRequest, response.ErrorBody{Error: i18n.T(ctx, "InvalidRequest", nil)})
		return
	}

	redirectURL, err := h.verifier.Verify(ctx, req.ShortPath, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrLinkNotPrivate):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrPasswordMismatch):
			status = http.StatusUnauthorized
		}
		c.JSON(status, response.ErrorBody{Error: i18n.T(ctx, err.Error(), nil)})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyPasswordResponse{Success: true, RedirectURL: redirectURL})
}
