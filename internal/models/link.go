package models

import "time"

// Link 推广链接
// 同一推广账号下 custom_link 值唯一（含"无自定义码"的空值情形），
// 因此规范链接（无自定义码）每个账号至多一条。
type Link struct {
	ID         uint      `gorm:"primarykey" json:"-"`                                                                            // 主键
	ExternalID string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"link_id"`                                           // 对外记录ID（link_<ts>_<rand>）
	AffiliateID uint     `gorm:"not null;index;index:idx_links_affiliate_custom,unique" json:"-"`                                // 归属推广账号
	CustomLink string    `gorm:"type:varchar(64);not null;default:'';index:idx_links_affiliate_custom,unique" json:"custom_link"` // 自定义推广码（空串表示规范链接）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                                                        // 创建时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广账号
}

// TableName 指定表名
func (Link) TableName() string {
	return "links"
}
