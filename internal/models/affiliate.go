package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 推广账号
type Affiliate struct {
	ID         uint           `gorm:"primarykey" json:"-"`                                                // 主键
	ExternalID string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"affiliate_id"`          // 对外记录ID（affiliate_<ts>_<rand>）
	UserID     string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"user_id"`               // 归属用户ID（一人一个推广账号）
	Status     string         `gorm:"type:varchar(20);not null;index" json:"status"`                      // 状态（pending/approved/rejected）
	CustomLink *string        `gorm:"type:varchar(64);uniqueIndex" json:"custom_link,omitempty"`          // 自定义推广码（全局唯一，可空）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}

// CustomLinkValue 返回自定义推广码（未设置时为空串）
func (a Affiliate) CustomLinkValue() string {
	if a.CustomLink == nil {
		return ""
	}
	return *a.CustomLink
}
