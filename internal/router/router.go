package router

import (
	"fmt"
	"strings"

	"github.com/prepnext/affiliate-api/internal/cache"
	"github.com/prepnext/affiliate-api/internal/config"
	adminhandlers "github.com/prepnext/affiliate-api/internal/http/handlers/admin"
	publichandlers "github.com/prepnext/affiliate-api/internal/http/handlers/public"
	"github.com/prepnext/affiliate-api/internal/logger"
	"github.com/prepnext/affiliate-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "aff"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		Message:       "error.login_too_many",
	}
	resolveRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:resolve", redisPrefix),
		WindowSeconds: cfg.Security.ResolveRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ResolveRateLimit.MaxRequests,
		Message:       "error.rate_limited",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 推广公开接口
		affiliate := apiV1.Group("/affiliate")
		{
			affiliate.POST("/register", publicHandler.Register)
			affiliate.POST("/resolve", RateLimitMiddleware(redisClient, resolveRule, KeyByIP), publicHandler.ResolveCode)
			affiliate.POST("/links/ensure", publicHandler.EnsureLink)
			affiliate.POST("/visits", publicHandler.RecordVisit)
		}

		// 订单回调
		apiV1.POST("/webhooks/order-completed", publicHandler.OrderCompleted)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.Security.AdminJWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.POST("/affiliates/:id/approve", adminHandler.ApproveAffiliate)
				authorized.POST("/affiliates/:id/reject", adminHandler.RejectAffiliate)
				authorized.GET("/affiliates/:id/visits", adminHandler.ListAffiliateVisits)
				authorized.GET("/affiliates/:id/commissions", adminHandler.ListAffiliateCommissions)
				authorized.GET("/affiliates/:id/stats", adminHandler.GetAffiliateStats)
				authorized.POST("/commissions/:id/pay", adminHandler.PayCommission)
				authorized.POST("/commissions/:id/cancel", adminHandler.CancelCommission)
			}
		}
	}

	return r
}
