package main

import (
	"time"

	"github.com/prepnext/affiliate-api/internal/config"
	"github.com/prepnext/affiliate-api/internal/constants"
	"github.com/prepnext/affiliate-api/internal/logger"
	"github.com/prepnext/affiliate-api/internal/models"
	"github.com/prepnext/affiliate-api/internal/provider"
	"github.com/prepnext/affiliate-api/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	db, err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(db, "", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	c := provider.NewContainer(cfg, db)

	// 演示推广账号
	affiliate, err := c.AffiliateService.Register("user_demo_1", "promo1")
	if err != nil {
		stdLog.Fatalf("Failed to seed affiliate: %v", err)
	}
	if affiliate.Status != constants.AffiliateStatusApproved {
		if affiliate, err = c.AffiliateService.Approve(affiliate.ExternalID); err != nil {
			stdLog.Fatalf("Failed to approve affiliate: %v", err)
		}
	}
	stdLog.Printf("Seeded affiliate: %s (custom_link=promo1)", affiliate.ExternalID)

	// 解析推广码并生成访问样本
	resolution, err := c.ResolverService.ResolveCode("promo1")
	if err != nil {
		stdLog.Fatalf("Failed to resolve seed code: %v", err)
	}
	for i := 0; i < 3; i++ {
		visit, err := c.VisitService.Record(resolution.AffiliateID, resolution.LinkID, service.VisitContext{
			IPAddress: "127.0.0.1",
			UserAgent: "seed-script",
		})
		if err != nil {
			stdLog.Printf("Failed to seed visit: %v", err)
			continue
		}
		stdLog.Printf("Seeded visit: %s", visit.ExternalID)
		time.Sleep(2 * time.Millisecond)
	}

	// 样本佣金
	commission, err := c.CommissionService.CreateForOrder(affiliate.ExternalID, "order_demo_1", 500)
	if err != nil {
		stdLog.Fatalf("Failed to seed commission: %v", err)
	}
	stdLog.Printf("Seeded commission: %s amount=%s", commission.ExternalID, commission.CommissionAmount.String())
}
