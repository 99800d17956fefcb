package queue

import (
	"encoding/json"

	"github.com/prepnext/affiliate-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCompleted 订单完成佣金结算任务
	TaskOrderCompleted = constants.TaskOrderCompleted
)

// OrderCompletedPayload 订单完成任务载荷
type OrderCompletedPayload struct {
	AffiliateID string `json:"affiliate_id"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	VisitID     string `json:"visit_id,omitempty"`
}

// NewOrderCompletedTask 创建订单完成任务
func NewOrderCompletedTask(payload OrderCompletedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCompleted, body), nil
}
