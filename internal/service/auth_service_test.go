package service

import (
	"errors"
	"testing"

	"github.com/prepnext/affiliate-api/internal/config"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/repository"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := setupServiceTestDB(t, "auth_service")
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate admin failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Security.AdminJWT.SecretKey = "test-secret-key"
	cfg.Security.AdminJWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()

	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestLoginSuccess(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "admin", "secret-pass")

	admin, token, expiresAt, err := svc.Login("admin", "secret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if expiresAt.IsZero() {
		t.Fatalf("expected expiry time")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("expected last login time updated")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "admin", "secret-pass")

	if _, _, _, err := svc.Login("admin", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("no-such-admin", "secret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "admin", "secret-pass")

	_, token, _, err := svc.Login("admin", "secret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	otherCfg := &config.Config{}
	otherCfg.Security.AdminJWT.SecretKey = "another-secret"
	otherCfg.Security.AdminJWT.ExpireHours = 24
	other := NewAuthService(otherCfg, nil)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}
