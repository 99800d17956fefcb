package repository

import (
	"errors"
	"strings"

	"github.com/prepnext/affiliate-api/internal/models"

	"gorm.io/gorm"
)

// VisitRepository 访问记录数据访问接口
type VisitRepository interface {
	WithTx(tx *gorm.DB) VisitRepository

	Create(visit *models.Visit) error
	GetByExternalID(externalID string) (*models.Visit, error)
	List(filter VisitListFilter) ([]models.Visit, int64, error)
	CountByAffiliate(affiliateID uint) (int64, error)
	CountConvertedByAffiliate(affiliateID uint) (int64, error)
	MarkConverted(externalID, orderID string) (int64, error)
}

// GormVisitRepository GORM 访问记录仓储
type GormVisitRepository struct {
	db *gorm.DB
}

// NewVisitRepository 创建访问记录仓储
func NewVisitRepository(db *gorm.DB) *GormVisitRepository {
	return &GormVisitRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVisitRepository) WithTx(tx *gorm.DB) VisitRepository {
	if tx == nil {
		return r
	}
	return &GormVisitRepository{db: tx}
}

// Create 创建访问记录
func (r *GormVisitRepository) Create(visit *models.Visit) error {
	return r.db.Create(visit).Error
}

// GetByExternalID 按对外ID获取访问记录
func (r *GormVisitRepository) GetByExternalID(externalID string) (*models.Visit, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var visit models.Visit
	if err := r.db.Where("external_id = ?", externalID).First(&visit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &visit, nil
}

// List 查询访问记录列表
func (r *GormVisitRepository) List(filter VisitListFilter) ([]models.Visit, int64, error) {
	query := r.db.Model(&models.Visit{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.LinkID != 0 {
		query = query.Where("link_id = ?", filter.LinkID)
	}
	if filter.Converted != nil {
		query = query.Where("converted = ?", *filter.Converted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	visits := make([]models.Visit, 0)
	if err := applyPagination(query.Order("visited_at DESC"), filter.Page, filter.PageSize).Find(&visits).Error; err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// CountByAffiliate 统计推广账号的访问总数
func (r *GormVisitRepository) CountByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Visit{}).Where("affiliate_id = ?", affiliateID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountConvertedByAffiliate 统计推广账号的已转化访问数
func (r *GormVisitRepository) CountConvertedByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Visit{}).
		Where("affiliate_id = ? AND converted = ?", affiliateID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkConverted 标记访问已转化，只允许 false -> true 单向翻转
func (r *GormVisitRepository) MarkConverted(externalID, orderID string) (int64, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return 0, nil
	}
	result := r.db.Model(&models.Visit{}).
		Where("external_id = ? AND converted = ?", externalID, false).
		Updates(map[string]interface{}{
			"converted": true,
			"order_id":  strings.TrimSpace(orderID),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
