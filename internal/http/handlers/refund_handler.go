package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zobamart/marketplace-backend/internal/http/handlers/common"
	"github.com/zobamart/marketplace-backend/internal/repository"
)

// RefundHandler exposes the read-only refund surface feeding the admin
// payout review.
type RefundHandler struct {
	repo *repository.RefundRepository
}

func NewRefundHandler(repo *repository.RefundRepository) *RefundHandler {
	return &RefundHandler{repo: repo}
}

// ListPendingRefunds handles GET /admin/refunds?vendor_id= (admin). Only
// pending refunds are returned; resolved ones belong to the order flow.
func (h *RefundHandler) ListPendingRefunds(c *gin.Context) {
	var vendorID *uuid.UUID
	if raw := c.Query("vendor_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "vendor_id must be a valid UUID")
			return
		}
		vendorID = &parsed
	}

	limit, offset := common.GetPagination(c)
	refunds, err := h.repo.ListPending(c.Request.Context(), vendorID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"refunds": refunds})
}
