package admin

import (
	"errors"
	"strings"

	handlershared "github.com/prepnext/affiliate-api/internal/http/handlers/shared"
	"github.com/prepnext/affiliate-api/internal/http/response"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"
	"github.com/prepnext/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAffiliates 查询推广账号列表 (Admin)
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	status := strings.TrimSpace(c.Query("status"))
	search := strings.TrimSpace(c.Query("search"))

	affiliates, total, err := h.AffiliateService.List(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   status,
		Search:   search,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, affiliates, response.BuildPagination(page, pageSize, total))
}

// GetAffiliate 查询推广账号详情 (Admin)
func (h *Handler) GetAffiliate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	affiliate, err := h.AffiliateService.GetByExternalID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.Success(c, affiliate)
}

// ApproveAffiliate 审核通过推广账号 (Admin)
func (h *Handler) ApproveAffiliate(c *gin.Context) {
	h.updateAffiliateStatus(c, h.AffiliateService.Approve)
}

// RejectAffiliate 驳回推广账号 (Admin)
func (h *Handler) RejectAffiliate(c *gin.Context) {
	h.updateAffiliateStatus(c, h.AffiliateService.Reject)
}

func (h *Handler) updateAffiliateStatus(c *gin.Context, update func(string) (*models.Affiliate, error)) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	affiliate, err := update(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}
	response.Success(c, affiliate)
}

// ListAffiliateVisits 查询推广账号访问记录 (Admin)
func (h *Handler) ListAffiliateVisits(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	visits, total, err := h.VisitService.ListByAffiliate(id, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.visit_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, visits, response.BuildPagination(page, pageSize, total))
}

// ListAffiliateCommissions 查询推广账号佣金记录 (Admin)
func (h *Handler) ListAffiliateCommissions(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	commissions, total, err := h.CommissionService.ListByAffiliate(id, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.commission_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, commissions, response.BuildPagination(page, pageSize, total))
}

// GetAffiliateStats 查询推广账号统计 (Admin)
func (h *Handler) GetAffiliateStats(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	stats, err := h.StatsService.GetStats(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}
	response.Success(c, stats)
}

// PayCommission 佣金打款 (Admin)
func (h *Handler) PayCommission(c *gin.Context) {
	h.updateCommissionStatus(c, h.CommissionService.MarkPaid)
}

// CancelCommission 取消佣金 (Admin)
func (h *Handler) CancelCommission(c *gin.Context) {
	h.updateCommissionStatus(c, h.CommissionService.Cancel)
}

func (h *Handler) updateCommissionStatus(c *gin.Context, update func(string) (*models.Commission, error)) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	commission, err := update(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.commission_not_found", nil)
		case errors.Is(err, service.ErrCommissionStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.commission_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.save_failed", err)
		}
		return
	}
	response.Success(c, commission)
}
