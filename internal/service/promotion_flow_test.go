package service

import (
	"context"
	"testing"

	"github.com/prepnext/affiliate-api/internal/config"
	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/repository"
	"github.com/shopspring/decimal"
)

// 覆盖注册、审核、解析、访问、成单到统计的完整推广闭环。
func TestPromotionCodeLifecycle(t *testing.T) {
	db := setupServiceTestDB(t, "promotion_flow")
	affiliateRepo := repository.NewAffiliateRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)

	affiliateService := NewAffiliateService(affiliateRepo)
	resolver := NewResolverService(affiliateRepo)
	visitService := NewVisitService(affiliateRepo, visitRepo, resolver)
	commissionService := NewCommissionService(affiliateRepo, commissionRepo, visitService)
	statsService := NewStatsService(&config.Config{}, affiliateRepo, visitRepo, commissionRepo)

	affiliate, err := affiliateService.Register("user-demo", "promo1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 待审核账号不可被解析
	if _, err := resolver.ResolveCode("promo1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before approval, got %v", err)
	}

	if _, err := affiliateService.Approve(affiliate.ExternalID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	resolution, err := resolver.ResolveCode("promo1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolution.AffiliateID != affiliate.ExternalID {
		t.Fatalf("expected affiliate %s, got %s", affiliate.ExternalID, resolution.AffiliateID)
	}
	if resolution.NeedsLinkCreation {
		t.Fatalf("registration creates the link, no deferred creation expected")
	}

	visit, err := visitService.Record(resolution.AffiliateID, resolution.LinkID, VisitContext{
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("record visit failed: %v", err)
	}

	commission, err := commissionService.HandleOrderCompleted(affiliate.ExternalID, "order42", 500, visit.ExternalID)
	if err != nil {
		t.Fatalf("handle order completed failed: %v", err)
	}
	if !commission.CommissionAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected commission 100, got %s", commission.CommissionAmount.Decimal)
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending commission, got %s", commission.Status)
	}

	stats, err := statsService.GetStats(context.Background(), affiliate.ExternalID)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if !stats.PendingCommissions.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected pending commissions 100, got %s", stats.PendingCommissions.Decimal)
	}
	if stats.TotalVisits != 1 || stats.TotalConversions != 1 {
		t.Fatalf("expected 1 visit / 1 conversion, got %d / %d", stats.TotalVisits, stats.TotalConversions)
	}
}
