package service

import (
	"strings"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"

	"gorm.io/gorm"
)

// Resolution 推广码解析结果
type Resolution struct {
	AffiliateID       string `json:"affiliate_id"`
	LinkID            string `json:"link_id"`
	NeedsLinkCreation bool   `json:"needs_link_creation,omitempty"`
}

// ResolverService 推广码解析服务，兼容多代历史推广码格式。
type ResolverService struct {
	repo repository.AffiliateRepository
}

// NewResolverService 创建推广码解析服务实例
func NewResolverService(repo repository.AffiliateRepository) *ResolverService {
	return &ResolverService{repo: repo}
}

// ResolveCode 按三级策略解析推广码，命中顺序固定：
//  1. 推广账号自定义链接精确匹配
//  2. 推广链接表自定义链接匹配
//  3. 账号ID去掉首段前缀后的后缀匹配（affiliate_<ts>_<rand> 取 <ts>_<rand>）
//
// 后缀匹配是对历史推广码格式的启发式还原，两个账号ID共享同一后缀时可能误配，行为保持不变。
func (s *ResolverService) ResolveCode(code string) (*Resolution, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrValidation
	}

	affiliate, err := s.resolveAffiliate(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	link, err := s.repo.GetLinkForAffiliate(affiliate.ID, affiliate.CustomLinkValue())
	if err != nil {
		return nil, err
	}
	if link == nil {
		// 解析路径只读，链接补建交给调用方（EnsureLink）
		return &Resolution{
			AffiliateID:       affiliate.ExternalID,
			LinkID:            constants.TempLinkPrefix + affiliate.ExternalID,
			NeedsLinkCreation: true,
		}, nil
	}
	return &Resolution{
		AffiliateID: affiliate.ExternalID,
		LinkID:      link.ExternalID,
	}, nil
}

func (s *ResolverService) resolveAffiliate(code string) (*models.Affiliate, error) {
	// 一级：账号自定义链接
	affiliate, err := s.repo.GetByCustomLink(code)
	if err != nil {
		return nil, err
	}
	if affiliate != nil && affiliate.Status == constants.AffiliateStatusApproved {
		return affiliate, nil
	}

	// 二级：推广链接表
	link, err := s.repo.GetLinkByCustomLink(code)
	if err != nil {
		return nil, err
	}
	if link != nil {
		owner, err := s.repo.GetByID(link.AffiliateID)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.Status == constants.AffiliateStatusApproved {
			return owner, nil
		}
	}

	// 三级：账号ID后缀
	approved, err := s.repo.ListByStatus(constants.AffiliateStatusApproved)
	if err != nil {
		return nil, err
	}
	for i := range approved {
		parts := strings.Split(approved[i].ExternalID, "_")
		if len(parts) < 3 {
			continue
		}
		if strings.Join(parts[1:], "_") == code {
			return &approved[i], nil
		}
	}
	return nil, nil
}

// EnsureLink 为推广账号补建与其自定义链接匹配的推广链接，幂等。
func (s *ResolverService) EnsureLink(affiliateExternalID string) (*models.Link, error) {
	affiliate, err := s.repo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	customLink := affiliate.CustomLinkValue()

	existing, err := s.repo.GetLinkForAffiliate(affiliate.ID, customLink)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	externalID, err := newRecordID(constants.IDPrefixLink)
	if err != nil {
		return nil, err
	}
	link := &models.Link{
		ExternalID:  externalID,
		AffiliateID: affiliate.ID,
		CustomLink:  customLink,
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.GetLinkForAffiliate(affiliate.ID, customLink)
		if err != nil {
			return err
		}
		if current != nil {
			link = current
			return nil
		}
		return repo.CreateLink(link)
	})
	if err != nil {
		if isUniqueViolation(err) {
			// 并发补建，复用已有链接
			current, getErr := s.repo.GetLinkForAffiliate(affiliate.ID, customLink)
			if getErr == nil && current != nil {
				return current, nil
			}
		}
		return nil, err
	}
	return link, nil
}
