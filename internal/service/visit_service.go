package service

import (
	"strings"
	"time"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"
)

const visitContextMaxLength = 1024

// VisitContext 访问上下文，全部可选。
type VisitContext struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// VisitService 访问记录服务
type VisitService struct {
	affiliateRepo repository.AffiliateRepository
	visitRepo     repository.VisitRepository
	resolver      *ResolverService
}

// NewVisitService 创建访问记录服务实例
func NewVisitService(affiliateRepo repository.AffiliateRepository, visitRepo repository.VisitRepository, resolver *ResolverService) *VisitService {
	return &VisitService{
		affiliateRepo: affiliateRepo,
		visitRepo:     visitRepo,
		resolver:      resolver,
	}
}

// Record 记录一次访问。访问不去重，同一访客重复访问生成多条记录。
// linkID 为 temp_ 占位符时，先幂等补建真实推广链接再落库。
func (s *VisitService) Record(affiliateExternalID, linkExternalID string, ctx VisitContext) (*models.Visit, error) {
	affiliateExternalID = strings.TrimSpace(affiliateExternalID)
	linkExternalID = strings.TrimSpace(linkExternalID)
	if affiliateExternalID == "" || linkExternalID == "" {
		return nil, ErrValidation
	}

	affiliate, err := s.affiliateRepo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	var link *models.Link
	if strings.HasPrefix(linkExternalID, constants.TempLinkPrefix) {
		if strings.TrimPrefix(linkExternalID, constants.TempLinkPrefix) != affiliateExternalID {
			return nil, ErrLinkOwnershipMismatch
		}
		link, err = s.resolver.EnsureLink(affiliateExternalID)
		if err != nil {
			return nil, err
		}
	} else {
		link, err = s.affiliateRepo.GetLinkByExternalID(linkExternalID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			return nil, ErrNotFound
		}
		if link.AffiliateID != affiliate.ID {
			return nil, ErrLinkOwnershipMismatch
		}
	}

	externalID, err := newRecordID(constants.IDPrefixVisit)
	if err != nil {
		return nil, err
	}
	visit := &models.Visit{
		ExternalID:  externalID,
		AffiliateID: affiliate.ID,
		LinkID:      link.ID,
		IPAddress:   truncate(ctx.IPAddress, 64),
		UserAgent:   truncate(ctx.UserAgent, visitContextMaxLength),
		Referer:     truncate(ctx.Referer, visitContextMaxLength),
		VisitedAt:   time.Now(),
	}
	if err := s.visitRepo.Create(visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// ListByAffiliate 查询推广账号的访问记录
func (s *VisitService) ListByAffiliate(affiliateExternalID string, page, pageSize int) ([]models.Visit, int64, error) {
	affiliate, err := s.affiliateRepo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, 0, err
	}
	if affiliate == nil {
		return nil, 0, ErrNotFound
	}
	return s.visitRepo.List(repository.VisitListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliate.ID,
	})
}

// MarkConverted 标记访问已转化，仅允许 false -> true，重复标记幂等。
func (s *VisitService) MarkConverted(visitExternalID, orderID string) error {
	visitExternalID = strings.TrimSpace(visitExternalID)
	if visitExternalID == "" {
		return ErrValidation
	}
	visit, err := s.visitRepo.GetByExternalID(visitExternalID)
	if err != nil {
		return err
	}
	if visit == nil {
		return ErrNotFound
	}
	if visit.Converted {
		return nil
	}
	_, err = s.visitRepo.MarkConverted(visitExternalID, orderID)
	return err
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) > max {
		return value[:max]
	}
	return value
}
