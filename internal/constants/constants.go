package constants

// 推广账号状态
const (
	AffiliateStatusPending  = "pending"
	AffiliateStatusApproved = "approved"
	AffiliateStatusRejected = "rejected"
)

// 佣金状态
const (
	CommissionStatusPending   = "pending"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// 外部记录 ID 前缀
const (
	IDPrefixAffiliate  = "affiliate"
	IDPrefixLink       = "link"
	IDPrefixVisit      = "visit"
	IDPrefixCommission = "commission"

	// TempLinkPrefix 延迟建链占位 linkId 前缀
	TempLinkPrefix = "temp_"
)

// CommissionRate 固定佣金比例（创建时快照进记录）
const CommissionRate = 0.20

// 队列与任务
const (
	QueueDefault       = "default"
	TaskOrderCompleted = "affiliate:order_completed"
)
