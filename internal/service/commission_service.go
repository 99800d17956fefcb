package service

import (
	"strings"
	"time"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionService 佣金计算与状态管理
type CommissionService struct {
	affiliateRepo  repository.AffiliateRepository
	commissionRepo repository.CommissionRepository
	visitService   *VisitService
}

// NewCommissionService 创建佣金服务实例
func NewCommissionService(
	affiliateRepo repository.AffiliateRepository,
	commissionRepo repository.CommissionRepository,
	visitService *VisitService,
) *CommissionService {
	return &CommissionService{
		affiliateRepo:  affiliateRepo,
		commissionRepo: commissionRepo,
		visitService:   visitService,
	}
}

// CreateForOrder 为订单生成佣金，同一 (推广账号, 订单) 重复调用返回既有记录。
func (s *CommissionService) CreateForOrder(affiliateExternalID, orderID string, amount int64) (*models.Commission, error) {
	affiliateExternalID = strings.TrimSpace(affiliateExternalID)
	orderID = strings.TrimSpace(orderID)
	if affiliateExternalID == "" || orderID == "" {
		return nil, ErrValidation
	}
	if amount <= 0 {
		return nil, ErrAmountInvalid
	}

	affiliate, err := s.affiliateRepo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	rate := decimal.NewFromFloat(constants.CommissionRate)
	commissionAmount := decimal.NewFromInt(amount).Mul(rate).Round(0)

	externalID, err := newRecordID(constants.IDPrefixCommission)
	if err != nil {
		return nil, err
	}
	commission := &models.Commission{
		ExternalID:       externalID,
		AffiliateID:      affiliate.ID,
		OrderID:          orderID,
		Amount:           models.NewMoneyFromInt(amount),
		CommissionRate:   models.NewMoneyFromDecimal(rate),
		CommissionAmount: models.NewMoneyFromDecimal(commissionAmount),
		Status:           constants.CommissionStatusPending,
	}

	// 幂等检查与写入放在同一事务，(affiliate_id, order_id) 唯一索引兜底并发
	err = s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.commissionRepo.WithTx(tx)
		existing, err := repo.GetByAffiliateAndOrder(affiliate.ID, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			commission = existing
			return nil
		}
		return repo.Create(commission)
	})
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := s.commissionRepo.GetByAffiliateAndOrder(affiliate.ID, orderID)
			if getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return commission, nil
}

// HandleOrderCompleted 订单完成入口：生成佣金并标记来源访问已转化。
// Webhook 重试与异步消费共用该路径，整体幂等。
func (s *CommissionService) HandleOrderCompleted(affiliateExternalID, orderID string, amount int64, visitExternalID string) (*models.Commission, error) {
	commission, err := s.CreateForOrder(affiliateExternalID, orderID, amount)
	if err != nil {
		return nil, err
	}
	if visitExternalID = strings.TrimSpace(visitExternalID); visitExternalID != "" {
		if err := s.visitService.MarkConverted(visitExternalID, orderID); err != nil && err != ErrNotFound {
			return nil, err
		}
	}
	return commission, nil
}

// ListByAffiliate 查询推广账号的佣金记录
func (s *CommissionService) ListByAffiliate(affiliateExternalID string, page, pageSize int) ([]models.Commission, int64, error) {
	affiliate, err := s.affiliateRepo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, 0, err
	}
	if affiliate == nil {
		return nil, 0, ErrNotFound
	}
	return s.commissionRepo.List(repository.CommissionListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliate.ID,
	})
}

// MarkPaid 佣金打款，pending -> paid，重复打款幂等返回。
func (s *CommissionService) MarkPaid(commissionExternalID string) (*models.Commission, error) {
	commission, err := s.commissionRepo.GetByExternalID(commissionExternalID)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrNotFound
	}
	switch commission.Status {
	case constants.CommissionStatusPaid:
		return commission, nil
	case constants.CommissionStatusCancelled:
		return nil, ErrCommissionStatusInvalid
	}

	now := time.Now()
	commission.Status = constants.CommissionStatusPaid
	commission.PaidAt = &now
	if err := s.commissionRepo.Update(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// Cancel 取消佣金，pending/paid -> cancelled，取消后不可再变更。
func (s *CommissionService) Cancel(commissionExternalID string) (*models.Commission, error) {
	commission, err := s.commissionRepo.GetByExternalID(commissionExternalID)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrNotFound
	}
	if commission.Status == constants.CommissionStatusCancelled {
		return commission, nil
	}

	commission.Status = constants.CommissionStatusCancelled
	if err := s.commissionRepo.Update(commission); err != nil {
		return nil, err
	}
	return commission, nil
}
