package public

import (
	"github.com/prepnext/affiliate-api/internal/http/response"
	"github.com/prepnext/affiliate-api/internal/queue"

	"github.com/gin-gonic/gin"
)

// OrderCompletedRequest 订单完成回调请求
type OrderCompletedRequest struct {
	AffiliateID string `json:"affiliate_id" binding:"required"`
	OrderID     string `json:"order_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	VisitID     string `json:"visit_id"`
}

// OrderCompleted 订单完成回调，生成佣金并标记来源访问转化。
// 队列可用时异步消费，否则同步落库；两条路径幂等，回调方可安全重试。
func (h *Handler) OrderCompleted(c *gin.Context) {
	var req OrderCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueOrderCompleted(queue.OrderCompletedPayload{
			AffiliateID: req.AffiliateID,
			OrderID:     req.OrderID,
			Amount:      req.Amount,
			VisitID:     req.VisitID,
		})
		if err == nil {
			response.SuccessWithMsg(c, "queued", gin.H{"queued": true})
			return
		}
		requestLog(c).Warnw("order_completed_enqueue_failed",
			"order_id", req.OrderID,
			"error", err,
		)
	}

	commission, err := h.CommissionService.HandleOrderCompleted(req.AffiliateID, req.OrderID, req.Amount, req.VisitID)
	if err != nil {
		respondWithMappedError(c, err, orderCompletedErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, commission)
}
