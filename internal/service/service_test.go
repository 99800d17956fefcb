package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prepnext/affiliate-api/internal/models"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{},
		&models.Link{},
		&models.Visit{},
		&models.Commission{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestAffiliate(t *testing.T, db *gorm.DB, externalID, userID, status, customLink string) *models.Affiliate {
	t.Helper()

	affiliate := &models.Affiliate{
		ExternalID: externalID,
		UserID:     userID,
		Status:     status,
	}
	if customLink != "" {
		affiliate.CustomLink = &customLink
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func createTestLink(t *testing.T, db *gorm.DB, affiliateID uint, externalID, customLink string) *models.Link {
	t.Helper()

	link := &models.Link{
		ExternalID:  externalID,
		AffiliateID: affiliateID,
		CustomLink:  customLink,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("create link failed: %v", err)
	}
	return link
}

func createTestVisit(t *testing.T, db *gorm.DB, affiliateID, linkID uint, externalID string, converted bool) *models.Visit {
	t.Helper()

	visit := &models.Visit{
		ExternalID:  externalID,
		AffiliateID: affiliateID,
		LinkID:      linkID,
		Converted:   converted,
		VisitedAt:   time.Now(),
	}
	if err := db.Create(visit).Error; err != nil {
		t.Fatalf("create visit failed: %v", err)
	}
	return visit
}
