package models

import "time"

// Visit 推广访问记录
type Visit struct {
	ID          uint      `gorm:"primarykey" json:"-"`                                         // 主键
	ExternalID  string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"visit_id"`       // 对外记录ID（visit_<ts>_<rand>）
	AffiliateID uint      `gorm:"not null;index" json:"-"`                                     // 归属推广账号
	LinkID      uint      `gorm:"not null;index" json:"-"`                                     // 归属推广链接
	IPAddress   string    `gorm:"type:varchar(64)" json:"ip_address,omitempty"`                // 客户端IP
	UserAgent   string    `gorm:"type:varchar(1024)" json:"user_agent,omitempty"`              // 客户端UA
	Referer     string    `gorm:"type:varchar(1024)" json:"referer,omitempty"`                 // 来源地址
	Converted   bool      `gorm:"not null;default:false;index" json:"converted"`               // 是否已转化
	OrderID     string    `gorm:"type:varchar(64)" json:"order_id,omitempty"`                  // 转化订单号（转化时写入）
	VisitedAt   time.Time `gorm:"index;not null" json:"visited_at"`                            // 访问时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广账号
	Link      Link      `gorm:"foreignKey:LinkID" json:"link,omitempty"`           // 推广链接
}

// TableName 指定表名
func (Visit) TableName() string {
	return "visits"
}
