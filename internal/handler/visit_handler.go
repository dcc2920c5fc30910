package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortlink-redirect/internal/apperrors"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/model"
	"shortlink-redirect/response"
)

// PendingVisitReader 访问队列中尚未被下游消费的记录
type PendingVisitReader interface {
	Pending(ctx context.Context, limit int) ([]model.VisitQueueItem, error)
}

type VisitHandler struct {
	visits PendingVisitReader
}

func NewVisitHandler(visits PendingVisitReader) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// Pending GET /api/visits/pending?limit=50
func (h *VisitHandler) Pending(c *gin.Context) {
	ctx := c.Request.Context()
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		_ = c.Error(apperrors.InvalidRequestError(i18n.T(ctx, "InvalidRequest", nil)))
		return
	}

	items, err := h.visits.Pending(ctx, limit)
	if err != nil {
		_ = c.Error(apperrors.SystemError(i18n.T(ctx, "SystemError", nil), err))
		return
	}
	c.JSON(http.StatusOK, response.OK(items, "success"))
}
