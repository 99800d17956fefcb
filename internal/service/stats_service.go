package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prepnext/affiliate-api/internal/cache"
	"github.com/prepnext/affiliate-api/internal/config"
	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/logger"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"
)

// AffiliateStats 推广账号统计汇总
type AffiliateStats struct {
	AffiliateID        string       `json:"affiliate_id"`
	TotalCommissions   models.Money `json:"total_commissions"`
	PendingCommissions models.Money `json:"pending_commissions"`
	PaidCommissions    models.Money `json:"paid_commissions"`
	TotalBalance       models.Money `json:"total_balance"`
	TotalVisits        int64        `json:"total_visits"`
	TotalConversions   int64        `json:"total_conversions"`
	ConversionRate     float64      `json:"conversion_rate"`
}

// StatsService 统计聚合服务，只读，不产生持久化副作用。
type StatsService struct {
	cfg            *config.Config
	affiliateRepo  repository.AffiliateRepository
	visitRepo      repository.VisitRepository
	commissionRepo repository.CommissionRepository
}

// NewStatsService 创建统计服务实例
func NewStatsService(
	cfg *config.Config,
	affiliateRepo repository.AffiliateRepository,
	visitRepo repository.VisitRepository,
	commissionRepo repository.CommissionRepository,
) *StatsService {
	return &StatsService{
		cfg:            cfg,
		affiliateRepo:  affiliateRepo,
		visitRepo:      visitRepo,
		commissionRepo: commissionRepo,
	}
}

// GetStats 计算推广账号统计，余额口径为未打款佣金。
func (s *StatsService) GetStats(ctx context.Context, affiliateExternalID string) (*AffiliateStats, error) {
	affiliate, err := s.affiliateRepo.GetByExternalID(affiliateExternalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	cacheKey := fmt.Sprintf("affiliate:stats:%s", affiliate.ExternalID)
	var cached AffiliateStats
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("stats_cache_read_failed", "affiliate_id", affiliate.ExternalID, "error", err)
	} else if hit {
		return &cached, nil
	}

	stats, err := s.buildStats(affiliate)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.cfg.Affiliate.StatsCacheTTLSeconds) * time.Second
	if ttl > 0 {
		if err := cache.SetJSON(ctx, cacheKey, stats, ttl); err != nil {
			logger.Warnw("stats_cache_write_failed", "affiliate_id", affiliate.ExternalID, "error", err)
		}
	}
	return stats, nil
}

func (s *StatsService) buildStats(affiliate *models.Affiliate) (*AffiliateStats, error) {
	total, err := s.commissionRepo.SumByAffiliate(affiliate.ID, []string{
		constants.CommissionStatusPending,
		constants.CommissionStatusPaid,
		constants.CommissionStatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	pending, err := s.commissionRepo.SumByAffiliate(affiliate.ID, []string{constants.CommissionStatusPending})
	if err != nil {
		return nil, err
	}
	paid, err := s.commissionRepo.SumByAffiliate(affiliate.ID, []string{constants.CommissionStatusPaid})
	if err != nil {
		return nil, err
	}
	visits, err := s.visitRepo.CountByAffiliate(affiliate.ID)
	if err != nil {
		return nil, err
	}
	conversions, err := s.visitRepo.CountConvertedByAffiliate(affiliate.ID)
	if err != nil {
		return nil, err
	}

	return &AffiliateStats{
		AffiliateID:        affiliate.ExternalID,
		TotalCommissions:   models.NewMoneyFromDecimal(total.Round(2)),
		PendingCommissions: models.NewMoneyFromDecimal(pending.Round(2)),
		PaidCommissions:    models.NewMoneyFromDecimal(paid.Round(2)),
		TotalBalance:       models.NewMoneyFromDecimal(pending.Round(2)),
		TotalVisits:        visits,
		TotalConversions:   conversions,
		ConversionRate:     calcConversionRate(conversions, visits),
	}, nil
}

func calcConversionRate(conversions, visits int64) float64 {
	if visits <= 0 || conversions <= 0 {
		return 0
	}
	value := (float64(conversions) / float64(visits)) * 100
	return math.Round(value*100) / 100
}
