package service

import (
	"strings"
	"time"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"

	"gorm.io/gorm"
)

const customLinkMaxLength = 64

// AffiliateService 推广账号注册与生命周期管理
type AffiliateService struct {
	repo repository.AffiliateRepository
}

// NewAffiliateService 创建推广账号服务实例
func NewAffiliateService(repo repository.AffiliateRepository) *AffiliateService {
	return &AffiliateService{repo: repo}
}

// Register 注册推广账号，每个用户至多一个，重复注册返回既有账号。
func (s *AffiliateService) Register(userID, customLink string) (*models.Affiliate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	customLink = strings.TrimSpace(customLink)
	if len(customLink) > customLinkMaxLength {
		return nil, ErrValidation
	}

	existing, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if customLink != "" {
		taken, err := s.repo.GetByCustomLink(customLink)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrCustomLinkTaken
		}
	}

	externalID, err := newRecordID(constants.IDPrefixAffiliate)
	if err != nil {
		return nil, err
	}
	linkExternalID, err := newRecordID(constants.IDPrefixLink)
	if err != nil {
		return nil, err
	}

	affiliate := &models.Affiliate{
		ExternalID: externalID,
		UserID:     userID,
		Status:     constants.AffiliateStatusPending,
	}
	if customLink != "" {
		affiliate.CustomLink = &customLink
	}

	// 账号与默认推广链接在同一事务内创建
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(affiliate); err != nil {
			return err
		}
		link := &models.Link{
			ExternalID:  linkExternalID,
			AffiliateID: affiliate.ID,
			CustomLink:  customLink,
		}
		return repo.CreateLink(link)
	})
	if err != nil {
		if isUniqueViolation(err) {
			// 并发注册：用户或自定义链接已被占用
			current, getErr := s.repo.GetByUserID(userID)
			if getErr == nil && current != nil {
				return current, nil
			}
			return nil, ErrCustomLinkTaken
		}
		return nil, err
	}
	return affiliate, nil
}

// Approve 审核通过推广账号，重复审核幂等返回。
func (s *AffiliateService) Approve(externalID string) (*models.Affiliate, error) {
	return s.updateStatus(externalID, constants.AffiliateStatusApproved)
}

// Reject 驳回推广账号，重复驳回幂等返回。
func (s *AffiliateService) Reject(externalID string) (*models.Affiliate, error) {
	return s.updateStatus(externalID, constants.AffiliateStatusRejected)
}

func (s *AffiliateService) updateStatus(externalID, status string) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	if affiliate.Status == status {
		return affiliate, nil
	}
	now := time.Now()
	if err := s.repo.UpdateStatus(affiliate.ID, status, now); err != nil {
		return nil, err
	}
	affiliate.Status = status
	affiliate.UpdatedAt = now
	return affiliate, nil
}

// GetByExternalID 按对外ID查询推广账号
func (s *AffiliateService) GetByExternalID(externalID string) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// GetByUserID 按用户ID查询推广账号
func (s *AffiliateService) GetByUserID(userID string) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// List 查询推广账号列表
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.repo.List(filter)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
