package models

import "time"

// Commission 佣金记录
// (affiliate_id, order_id) 唯一索引保证同一订单对同一推广账号只产生一条佣金。
type Commission struct {
	ID               uint       `gorm:"primarykey" json:"-"`                                                          // 主键
	ExternalID       string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"commission_id"`                   // 对外记录ID（commission_<ts>_<rand>）
	AffiliateID      uint       `gorm:"not null;index;index:idx_commissions_affiliate_order,unique" json:"-"`         // 归属推广账号
	OrderID          string     `gorm:"type:varchar(64);not null;index:idx_commissions_affiliate_order,unique" json:"order_id"` // 订单号
	Amount           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`                          // 订单金额
	CommissionRate   Money      `gorm:"type:decimal(10,2);not null;default:0" json:"commission_rate"`                 // 佣金比例快照
	CommissionAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"`               // 佣金金额
	Status           string     `gorm:"type:varchar(20);not null;index" json:"status"`                                // 状态（pending/paid/cancelled）
	PaidAt           *time.Time `gorm:"index" json:"paid_at,omitempty"`                                               // 打款时间
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                                      // 创建时间
	UpdatedAt        time.Time  `gorm:"index" json:"updated_at"`                                                      // 更新时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广账号
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
