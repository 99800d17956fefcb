package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/prepnext/affiliate-api/internal/logger"
	"github.com/prepnext/affiliate-api/internal/provider"
	"github.com/prepnext/affiliate-api/internal/queue"
	"github.com/prepnext/affiliate-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderCompleted, c.handleOrderCompleted)
}

func (c *Consumer) handleOrderCompleted(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_completed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderCompletedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_completed_unmarshal_failed", "error", err)
		return err
	}

	commission, err := c.CommissionService.HandleOrderCompleted(payload.AffiliateID, payload.OrderID, payload.Amount, payload.VisitID)
	if err != nil {
		// 校验类错误重试无意义，直接丢弃
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrAmountInvalid) || errors.Is(err, service.ErrNotFound) {
			logger.Warnw("worker_order_completed_skip_invalid",
				"affiliate_id", payload.AffiliateID,
				"order_id", payload.OrderID,
				"error", err,
			)
			return nil
		}
		logger.Errorw("worker_order_completed_failed",
			"affiliate_id", payload.AffiliateID,
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}

	logger.Infow("worker_order_completed_done",
		"affiliate_id", payload.AffiliateID,
		"order_id", payload.OrderID,
		"commission_id", commission.ExternalID,
		"commission_amount", commission.CommissionAmount.String(),
	)
	return nil
}
