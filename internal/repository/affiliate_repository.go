package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/prepnext/affiliate-api/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository 推广账号与推广链接数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetByID(id uint) (*models.Affiliate, error)
	GetByExternalID(externalID string) (*models.Affiliate, error)
	GetByUserID(userID string) (*models.Affiliate, error)
	GetByCustomLink(customLink string) (*models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	ListByStatus(status string) ([]models.Affiliate, error)

	CreateLink(link *models.Link) error
	GetLinkByExternalID(externalID string) (*models.Link, error)
	GetLinkByCustomLink(customLink string) (*models.Link, error)
	GetLinkForAffiliate(affiliateID uint, customLink string) (*models.Link, error)
	ListLinksByAffiliate(affiliateID uint) ([]models.Link, error)
}

// GormAffiliateRepository GORM 推广账号仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广账号仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按主键获取推广账号
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByExternalID 按对外ID获取推广账号
func (r *GormAffiliateRepository) GetByExternalID(externalID string) (*models.Affiliate, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("external_id = ?", externalID).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByUserID 按用户ID获取推广账号
func (r *GormAffiliateRepository) GetByUserID(userID string) (*models.Affiliate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("user_id = ?", userID).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByCustomLink 按自定义链接获取推广账号
func (r *GormAffiliateRepository) GetByCustomLink(customLink string) (*models.Affiliate, error) {
	customLink = strings.TrimSpace(customLink)
	if customLink == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("custom_link = ?", customLink).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// Create 创建推广账号
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// UpdateStatus 更新推广账号状态
func (r *GormAffiliateRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// List 查询推广账号列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("external_id LIKE ? OR user_id LIKE ? OR custom_link LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	affiliates := make([]models.Affiliate, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&affiliates).Error; err != nil {
		return nil, 0, err
	}
	return affiliates, total, nil
}

// ListByStatus 按状态查询推广账号
func (r *GormAffiliateRepository) ListByStatus(status string) ([]models.Affiliate, error) {
	affiliates := make([]models.Affiliate, 0)
	query := r.db.Model(&models.Affiliate{})
	if status = strings.TrimSpace(status); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id ASC").Find(&affiliates).Error; err != nil {
		return nil, err
	}
	return affiliates, nil
}

// CreateLink 创建推广链接
func (r *GormAffiliateRepository) CreateLink(link *models.Link) error {
	return r.db.Create(link).Error
}

// GetLinkByExternalID 按对外ID获取推广链接
func (r *GormAffiliateRepository) GetLinkByExternalID(externalID string) (*models.Link, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var link models.Link
	if err := r.db.Where("external_id = ?", externalID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetLinkByCustomLink 按自定义链接获取推广链接
func (r *GormAffiliateRepository) GetLinkByCustomLink(customLink string) (*models.Link, error) {
	customLink = strings.TrimSpace(customLink)
	if customLink == "" {
		return nil, nil
	}
	var link models.Link
	if err := r.db.Where("custom_link = ?", customLink).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetLinkForAffiliate 获取推广账号下指定自定义链接的推广链接，customLink 为空表示默认链接
func (r *GormAffiliateRepository) GetLinkForAffiliate(affiliateID uint, customLink string) (*models.Link, error) {
	if affiliateID == 0 {
		return nil, nil
	}
	var link models.Link
	err := r.db.Where("affiliate_id = ? AND custom_link = ?", affiliateID, strings.TrimSpace(customLink)).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// ListLinksByAffiliate 查询推广账号下的全部推广链接
func (r *GormAffiliateRepository) ListLinksByAffiliate(affiliateID uint) ([]models.Link, error) {
	links := make([]models.Link, 0)
	if affiliateID == 0 {
		return links, nil
	}
	if err := r.db.Where("affiliate_id = ?", affiliateID).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
