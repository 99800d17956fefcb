package repository

import (
	"errors"
	"strings"

	"github.com/prepnext/affiliate-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRepository 佣金数据访问接口
type CommissionRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CommissionRepository

	Create(commission *models.Commission) error
	Update(commission *models.Commission) error
	GetByExternalID(externalID string) (*models.Commission, error)
	GetByAffiliateAndOrder(affiliateID uint, orderID string) (*models.Commission, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	CountByAffiliate(affiliateID uint) (int64, error)
	SumByAffiliate(affiliateID uint, statuses []string) (decimal.Decimal, error)
}

// GormCommissionRepository GORM 佣金仓储
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// Update 更新佣金记录
func (r *GormCommissionRepository) Update(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// GetByExternalID 按对外ID获取佣金记录
func (r *GormCommissionRepository) GetByExternalID(externalID string) (*models.Commission, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Where("external_id = ?", externalID).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// GetByAffiliateAndOrder 按推广账号与订单号获取佣金记录
func (r *GormCommissionRepository) GetByAffiliateAndOrder(affiliateID uint, orderID string) (*models.Commission, error) {
	orderID = strings.TrimSpace(orderID)
	if affiliateID == 0 || orderID == "" {
		return nil, nil
	}
	var commission models.Commission
	err := r.db.Where("affiliate_id = ? AND order_id = ?", affiliateID, orderID).
		First(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// List 查询佣金列表
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderID := strings.TrimSpace(filter.OrderID); orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]models.Commission, 0)
	if err := applyPagination(query.Order("created_at DESC"), filter.Page, filter.PageSize).Find(&commissions).Error; err != nil {
		return nil, 0, err
	}
	return commissions, total, nil
}

// CountByAffiliate 统计推广账号的佣金记录数
func (r *GormCommissionRepository) CountByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Commission{}).Where("affiliate_id = ?", affiliateID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumByAffiliate 汇总指定状态的佣金金额
func (r *GormCommissionRepository) SumByAffiliate(affiliateID uint, statuses []string) (decimal.Decimal, error) {
	if affiliateID == 0 || len(statuses) == 0 {
		return decimal.Zero, nil
	}

	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.Model(&models.Commission{}).
		Select("COALESCE(SUM(commission_amount), 0) AS total").
		Where("affiliate_id = ? AND status IN ?", affiliateID, statuses).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
