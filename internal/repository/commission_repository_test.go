package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionRepositoryTest(t *testing.T) (*GormCommissionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:commission_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{},
		&models.Commission{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCommissionRepository(db), db
}

func createCommissionTestAffiliate(t *testing.T, db *gorm.DB, externalID, userID string) *models.Affiliate {
	t.Helper()
	affiliate := &models.Affiliate{
		ExternalID: externalID,
		UserID:     userID,
		Status:     constants.AffiliateStatusApproved,
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func createCommissionTestRecord(t *testing.T, db *gorm.DB, affiliateID uint, externalID, orderID, status string, amount int64) *models.Commission {
	t.Helper()
	commission := &models.Commission{
		ExternalID:       externalID,
		AffiliateID:      affiliateID,
		OrderID:          orderID,
		Amount:           models.NewMoneyFromInt(amount * 5),
		CommissionRate:   models.NewMoneyFromDecimal(decimal.NewFromFloat(constants.CommissionRate)),
		CommissionAmount: models.NewMoneyFromInt(amount),
		Status:           status,
	}
	if err := db.Create(commission).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	return commission
}

func TestCommissionRepositorySumByAffiliate(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	affiliate := createCommissionTestAffiliate(t, db, "affiliate_1766595750044_aaaaaaaaa", "user-1")
	createCommissionTestRecord(t, db, affiliate.ID, "commission_1766595750044_111111111", "order-1", constants.CommissionStatusPending, 100)
	createCommissionTestRecord(t, db, affiliate.ID, "commission_1766595750044_222222222", "order-2", constants.CommissionStatusPaid, 50)
	createCommissionTestRecord(t, db, affiliate.ID, "commission_1766595750044_333333333", "order-3", constants.CommissionStatusCancelled, 30)

	pending, err := repo.SumByAffiliate(affiliate.ID, []string{constants.CommissionStatusPending})
	if err != nil {
		t.Fatalf("sum pending failed: %v", err)
	}
	if !pending.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("pending sum want 100 got %s", pending)
	}

	all, err := repo.SumByAffiliate(affiliate.ID, []string{
		constants.CommissionStatusPending,
		constants.CommissionStatusPaid,
		constants.CommissionStatusCancelled,
	})
	if err != nil {
		t.Fatalf("sum all failed: %v", err)
	}
	if !all.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("total sum want 180 got %s", all)
	}
}

func TestCommissionRepositorySumByAffiliateEmpty(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	affiliate := createCommissionTestAffiliate(t, db, "affiliate_1766595750044_aaaaaaaaa", "user-1")

	sum, err := repo.SumByAffiliate(affiliate.ID, []string{constants.CommissionStatusPending})
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if !sum.IsZero() {
		t.Fatalf("empty sum want 0 got %s", sum)
	}
}

func TestCommissionRepositoryGetByAffiliateAndOrder(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	affiliate := createCommissionTestAffiliate(t, db, "affiliate_1766595750044_aaaaaaaaa", "user-1")
	created := createCommissionTestRecord(t, db, affiliate.ID, "commission_1766595750044_111111111", "order-1", constants.CommissionStatusPending, 100)

	found, err := repo.GetByAffiliateAndOrder(affiliate.ID, "order-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found == nil || found.ExternalID != created.ExternalID {
		t.Fatalf("expected commission %s, got %+v", created.ExternalID, found)
	}

	missing, err := repo.GetByAffiliateAndOrder(affiliate.ID, "order-unknown")
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown order, got %+v", missing)
	}
}

func TestCommissionRepositoryUniqueAffiliateOrder(t *testing.T) {
	_, db := setupCommissionRepositoryTest(t)

	affiliate := createCommissionTestAffiliate(t, db, "affiliate_1766595750044_aaaaaaaaa", "user-1")
	createCommissionTestRecord(t, db, affiliate.ID, "commission_1766595750044_111111111", "order-1", constants.CommissionStatusPending, 100)

	duplicate := &models.Commission{
		ExternalID:       "commission_1766595750044_222222222",
		AffiliateID:      affiliate.ID,
		OrderID:          "order-1",
		Amount:           models.NewMoneyFromInt(500),
		CommissionRate:   models.NewMoneyFromDecimal(decimal.NewFromFloat(constants.CommissionRate)),
		CommissionAmount: models.NewMoneyFromInt(100),
		Status:           constants.CommissionStatusPending,
	}
	if err := db.Create(duplicate).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate (affiliate, order)")
	}
}

func TestCommissionRepositoryListFilters(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	first := createCommissionTestAffiliate(t, db, "affiliate_1766595750044_aaaaaaaaa", "user-1")
	second := createCommissionTestAffiliate(t, db, "affiliate_1766595750099_bbbbbbbbb", "user-2")
	createCommissionTestRecord(t, db, first.ID, "commission_1766595750044_111111111", "order-1", constants.CommissionStatusPending, 100)
	createCommissionTestRecord(t, db, first.ID, "commission_1766595750044_222222222", "order-2", constants.CommissionStatusPaid, 50)
	createCommissionTestRecord(t, db, second.ID, "commission_1766595750099_333333333", "order-3", constants.CommissionStatusPending, 30)

	items, total, err := repo.List(CommissionListFilter{Page: 1, PageSize: 10, AffiliateID: first.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 commissions for first affiliate, got total=%d len=%d", total, len(items))
	}

	items, total, err = repo.List(CommissionListFilter{Page: 1, PageSize: 10, Status: constants.CommissionStatusPending})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 pending commissions, got total=%d len=%d", total, len(items))
	}
}
