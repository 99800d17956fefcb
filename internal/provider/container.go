package provider

import (
	"github.com/prepnext/affiliate-api/internal/cache"
	"github.com/prepnext/affiliate-api/internal/config"
	"github.com/prepnext/affiliate-api/internal/logger"
	"github.com/prepnext/affiliate-api/internal/queue"
	"github.com/prepnext/affiliate-api/internal/repository"
	"github.com/prepnext/affiliate-api/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	AffiliateRepo  repository.AffiliateRepository
	VisitRepo      repository.VisitRepository
	CommissionRepo repository.CommissionRepository

	// Services
	AuthService       *service.AuthService
	AffiliateService  *service.AffiliateService
	ResolverService   *service.ResolverService
	VisitService      *service.VisitService
	CommissionService *service.CommissionService
	StatsService      *service.StatsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.AdminRepo = repository.NewAdminRepository(c.DB)
	c.AffiliateRepo = repository.NewAffiliateRepository(c.DB)
	c.VisitRepo = repository.NewVisitRepository(c.DB)
	c.CommissionRepo = repository.NewCommissionRepository(c.DB)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo)
	c.ResolverService = service.NewResolverService(c.AffiliateRepo)
	c.VisitService = service.NewVisitService(c.AffiliateRepo, c.VisitRepo, c.ResolverService)
	c.CommissionService = service.NewCommissionService(c.AffiliateRepo, c.CommissionRepo, c.VisitService)
	c.StatsService = service.NewStatsService(c.Config, c.AffiliateRepo, c.VisitRepo, c.CommissionRepo)
}
