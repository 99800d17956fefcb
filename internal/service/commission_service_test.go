package service

import (
	"errors"
	"testing"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionServiceTest(t *testing.T) (*CommissionService, *gorm.DB) {
	t.Helper()

	db := setupServiceTestDB(t, "commission_service")
	affiliateRepo := repository.NewAffiliateRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	resolver := NewResolverService(affiliateRepo)
	visitService := NewVisitService(affiliateRepo, visitRepo, resolver)
	return NewCommissionService(affiliateRepo, repository.NewCommissionRepository(db), visitService), db
}

func TestCreateForOrderCommissionAmount(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")

	cases := []struct {
		orderID  string
		amount   int64
		expected int64
	}{
		{"order-1", 500, 100},
		{"order-2", 100, 20},
		{"order-3", 99, 20},
		{"order-4", 1, 0},
	}
	for _, tc := range cases {
		commission, err := svc.CreateForOrder(affiliate.ExternalID, tc.orderID, tc.amount)
		if err != nil {
			t.Fatalf("create commission for %s failed: %v", tc.orderID, err)
		}
		if !commission.CommissionAmount.Decimal.Equal(decimal.NewFromInt(tc.expected)) {
			t.Fatalf("order %s amount %d: expected commission %d, got %s",
				tc.orderID, tc.amount, tc.expected, commission.CommissionAmount.Decimal)
		}
		if commission.Status != constants.CommissionStatusPending {
			t.Fatalf("expected pending commission, got %s", commission.Status)
		}
		if !commission.CommissionRate.Decimal.Equal(decimal.NewFromFloat(constants.CommissionRate)) {
			t.Fatalf("expected rate snapshot %v, got %s", constants.CommissionRate, commission.CommissionRate.Decimal)
		}
	}
}

func TestCreateForOrderIdempotent(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")

	first, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", 500)
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	second, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", 9999)
	if err != nil {
		t.Fatalf("repeated create failed: %v", err)
	}
	if second.ExternalID != first.ExternalID {
		t.Fatalf("expected same commission on repeat, got %s vs %s", second.ExternalID, first.ExternalID)
	}
	// 重复触发不改写首次金额
	if !second.CommissionAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected original commission amount 100, got %s", second.CommissionAmount.Decimal)
	}

	var count int64
	if err := db.Model(&models.Commission{}).Count(&count).Error; err != nil {
		t.Fatalf("count commissions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 commission, got %d", count)
	}
}

func TestCreateForOrderValidation(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")

	if _, err := svc.CreateForOrder("", "order-1", 500); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateForOrder(affiliate.ExternalID, "", 500); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", 0); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
	if _, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", -10); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
	if _, err := svc.CreateForOrder("affiliate_missing", "order-1", 500); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaidTransitions(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")
	commission, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", 500)
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}

	paid, err := svc.MarkPaid(commission.ExternalID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.CommissionStatusPaid {
		t.Fatalf("expected paid status, got %s", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	again, err := svc.MarkPaid(commission.ExternalID)
	if err != nil {
		t.Fatalf("repeated mark paid failed: %v", err)
	}
	if !again.PaidAt.Equal(*paid.PaidAt) {
		t.Fatalf("expected paid_at unchanged on repeat")
	}

	// 已打款佣金仍可取消
	cancelled, err := svc.Cancel(commission.ExternalID)
	if err != nil {
		t.Fatalf("cancel paid commission failed: %v", err)
	}
	if cancelled.Status != constants.CommissionStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")
	commission, err := svc.CreateForOrder(affiliate.ExternalID, "order-1", 500)
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}

	cancelled, err := svc.Cancel(commission.ExternalID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.CommissionStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(commission.ExternalID); err != nil {
		t.Fatalf("repeated cancel failed: %v", err)
	}
	if _, err := svc.MarkPaid(commission.ExternalID); !errors.Is(err, ErrCommissionStatusInvalid) {
		t.Fatalf("expected ErrCommissionStatusInvalid paying a cancelled commission, got %v", err)
	}

	if _, err := svc.MarkPaid("commission_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleOrderCompletedMarksVisitConverted(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")
	link := createTestLink(t, db, affiliate.ID, "link_1766595750044_aaaaaaaaa", "")
	visit := createTestVisit(t, db, affiliate.ID, link.ID, "visit_1766595750044_vvvvvvvvv", false)

	commission, err := svc.HandleOrderCompleted(affiliate.ExternalID, "order-1", 500, visit.ExternalID)
	if err != nil {
		t.Fatalf("handle order completed failed: %v", err)
	}
	if !commission.CommissionAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected commission 100, got %s", commission.CommissionAmount.Decimal)
	}

	var loaded models.Visit
	if err := db.Where("external_id = ?", visit.ExternalID).First(&loaded).Error; err != nil {
		t.Fatalf("load visit failed: %v", err)
	}
	if !loaded.Converted || loaded.OrderID != "order-1" {
		t.Fatalf("expected converted visit with order-1, got %+v", loaded)
	}
}

func TestHandleOrderCompletedToleratesUnknownVisit(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	affiliate := createTestAffiliate(t, db, "affiliate_1766595750044_c0ttkxjle", "user-1", constants.AffiliateStatusApproved, "")

	commission, err := svc.HandleOrderCompleted(affiliate.ExternalID, "order-1", 500, "visit_missing")
	if err != nil {
		t.Fatalf("expected commission despite missing visit, got error: %v", err)
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending commission, got %s", commission.Status)
	}
}
