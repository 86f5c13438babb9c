package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zobamart/marketplace-backend/internal/dto"
	"github.com/zobamart/marketplace-backend/internal/http/handlers/common"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
	"github.com/zobamart/marketplace-backend/internal/pkg/money"
	"github.com/zobamart/marketplace-backend/internal/service"
)

// PayoutHandler is the HTTP layer over the payout service: vendor intake plus
// the admin approval surface.
type PayoutHandler struct {
	svc *service.PayoutService
}

func NewPayoutHandler(svc *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{svc: svc}
}

// CreatePayout handles POST /payouts (vendor).
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	vendorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	amount, err := req.ParseAmount()
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payout, err := h.svc.RequestPayout(c.Request.Context(), vendorID, amount, req.AccountName, req.AccountNumber, req.BankName)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, payout)
}

// ListMyPayouts handles GET /payouts (vendor).
func (h *PayoutHandler) ListMyPayouts(c *gin.Context) {
	vendorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	payouts, err := h.svc.ListVendorPayouts(c.Request.Context(), vendorID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"payouts": payouts})
}

// GetMyBalance handles GET /payouts/balance (vendor).
func (h *PayoutHandler) GetMyBalance(c *gin.Context) {
	vendorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	balance, err := h.svc.GetVendorBalance(c.Request.Context(), vendorID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, balance)
}

// ListPayouts handles GET /admin/payouts?status= (admin).
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	payouts, err := h.svc.ListPayouts(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"payouts": payouts})
}

// GetPayout handles GET /admin/payouts/:id (admin).
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payout, err := h.svc.GetPayout(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, payout)
}

// ApprovePayout handles POST /admin/payouts/:id/approve (admin).
//
// When the hold-adjusted amount is below the requested one and the request
// did not confirm, a 409 carries the adjusted amount so the UI can ask; the
// payout stays pending.
func (h *PayoutHandler) ApprovePayout(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ApprovePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Approve(c.Request.Context(), id, req.Confirmed)
	if err != nil {
		if errors.Is(err, apperror.ErrConfirmationRequired) {
			common.RespondJSON(c, http.StatusConflict, result)
			return
		}
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, result)
}

// RejectPayout handles POST /admin/payouts/:id/reject (admin).
func (h *PayoutHandler) RejectPayout(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.RejectPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payout, err := h.svc.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, payout)
}

// BulkApprove handles POST /admin/payouts/bulk-approve (admin).
func (h *PayoutHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ids, err := req.ParsePayoutIDs()
	if err != nil {
		common.RespondBadRequest(c, "payout_ids must be valid UUIDs")
		return
	}

	result := h.svc.BulkApprove(c.Request.Context(), ids)
	common.RespondJSON(c, http.StatusOK, result)
}

// BulkReject handles POST /admin/payouts/bulk-reject (admin).
func (h *PayoutHandler) BulkReject(c *gin.Context) {
	var req dto.BulkPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if req.Reason == "" {
		common.RespondBadRequest(c, "reason is required for bulk rejection")
		return
	}

	ids, err := req.ParsePayoutIDs()
	if err != nil {
		common.RespondBadRequest(c, "payout_ids must be valid UUIDs")
		return
	}

	result := h.svc.BulkReject(c.Request.Context(), ids, req.Reason)
	common.RespondJSON(c, http.StatusOK, result)
}

// VendorAvailableBalance handles
// GET /admin/vendors/:id/available-balance?request_amount= (admin). The
// request_amount query is decimal Naira; omitted means zero.
func (h *PayoutHandler) VendorAvailableBalance(c *gin.Context) {
	vendorID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var requestAmount money.Kobo
	if raw := c.Query("request_amount"); raw != "" {
		requestAmount, err = money.ParseNaira(raw)
		if err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	impact, err := h.svc.VendorImpact(c.Request.Context(), vendorID, requestAmount)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, impact)
}
