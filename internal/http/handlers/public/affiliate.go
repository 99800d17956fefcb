package public

import (
	"github.com/prepnext/affiliate-api/internal/http/response"
	"github.com/prepnext/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AffiliateRegisterRequest 推广账号注册请求
type AffiliateRegisterRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	CustomLink string `json:"custom_link"`
}

// Register 注册推广账号，同一用户重复注册返回既有账号。
func (h *Handler) Register(c *gin.Context) {
	var req AffiliateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	affiliate, err := h.AffiliateService.Register(req.UserID, req.CustomLink)
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, affiliate)
}

// ResolveCodeRequest 推广码解析请求
type ResolveCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ResolveCode 解析推广码为推广账号与链接
func (h *Handler) ResolveCode(c *gin.Context) {
	var req ResolveCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	resolution, err := h.ResolverService.ResolveCode(req.Code)
	if err != nil {
		respondWithMappedError(c, err, resolveErrorRules, response.CodeInternal, "error.resolve_failed")
		return
	}
	response.Success(c, resolution)
}

// EnsureLinkRequest 推广链接补建请求
type EnsureLinkRequest struct {
	AffiliateID string `json:"affiliate_id" binding:"required"`
}

// EnsureLink 为推广账号补建推广链接，重复调用幂等。
func (h *Handler) EnsureLink(c *gin.Context) {
	var req EnsureLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	link, err := h.ResolverService.EnsureLink(req.AffiliateID)
	if err != nil {
		respondWithMappedError(c, err, visitErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, link)
}

// RecordVisitRequest 访问上报请求
type RecordVisitRequest struct {
	AffiliateID string `json:"affiliate_id" binding:"required"`
	LinkID      string `json:"link_id" binding:"required"`
	Referer     string `json:"referer"`
}

// RecordVisit 上报一次推广访问
func (h *Handler) RecordVisit(c *gin.Context) {
	var req RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	referer := req.Referer
	if referer == "" {
		referer = c.GetHeader("Referer")
	}
	visit, err := h.VisitService.Record(req.AffiliateID, req.LinkID, service.VisitContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   referer,
	})
	if err != nil {
		respondWithMappedError(c, err, visitErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, visit)
}
