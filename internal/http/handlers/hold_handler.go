package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zobamart/marketplace-backend/internal/dto"
	"github.com/zobamart/marketplace-backend/internal/http/handlers/common"
	"github.com/zobamart/marketplace-backend/internal/service"
)

// HoldHandler is the HTTP layer over the payout hold ledger (admin only).
type HoldHandler struct {
	svc *service.HoldService
}

func NewHoldHandler(svc *service.HoldService) *HoldHandler {
	return &HoldHandler{svc: svc}
}

// CreateHold handles POST /admin/payout-holds.
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req dto.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	vendorID, err := req.ParseVendorID()
	if err != nil {
		common.RespondBadRequest(c, "vendor_id must be a valid UUID")
		return
	}

	amount, err := req.ParseAmount()
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hold, err := h.svc.CreateHold(c.Request.Context(), vendorID, amount, req.Reason, req.RefundRequestIDs)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, hold)
}

// ListHolds handles GET /admin/payout-holds?status=.
func (h *HoldHandler) ListHolds(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	holds, err := h.svc.ListHolds(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"holds": holds})
}

// GetHold handles GET /admin/payout-holds/:id.
func (h *HoldHandler) GetHold(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hold, err := h.svc.GetHold(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hold)
}

// ListVendorHolds handles GET /admin/vendors/:id/payout-holds.
func (h *HoldHandler) ListVendorHolds(c *gin.Context) {
	vendorID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	holds, err := h.svc.ListActiveHolds(c.Request.Context(), vendorID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"holds": holds})
}

// ReleaseHold handles PUT /admin/payout-holds/:id/release. Releasing an
// already-released hold succeeds.
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hold, err := h.svc.ReleaseHold(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hold)
}
