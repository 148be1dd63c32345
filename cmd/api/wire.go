//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// Step 1: 修改本文件的Providers或Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewProductRepository）
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appalert "github.com/lubrimax/lubestock/internal/application/alert"
	appanalysis "github.com/lubrimax/lubestock/internal/application/analysis"
	appinventory "github.com/lubrimax/lubestock/internal/application/inventory"
	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/domain/product"
	"github.com/lubrimax/lubestock/internal/infrastructure/config"
	"github.com/lubrimax/lubestock/internal/infrastructure/messaging"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/mysql"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/redis"
	"github.com/lubrimax/lubestock/internal/interface/http/handler"
	"github.com/lubrimax/lubestock/internal/interface/http/middleware"
	"github.com/lubrimax/lubestock/pkg/circuitbreaker"
	"github.com/lubrimax/lubestock/pkg/jwt"
	"github.com/lubrimax/lubestock/pkg/mq"
	"github.com/lubrimax/lubestock/pkg/response"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewProductRepository,  // 库存事实仓储
	mysql.NewMovementRepository, // 库存流水仓储
	mysql.NewAlertMirror,        // 告警状态镜像
	mysql.NewTxManager,          // 事务管理器
	provideBadgeStore,           // Redis角标
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	alert.NewStore, // 本地告警集合（权威副本）
	provideBreaker, // 数据源熔断器
)

// applicationSet 应用层依赖
// 构造函数需要从Config提取超时/窗口参数，统一走自定义Provider
var applicationSet = wire.NewSet(
	provideEventPublisher,
	provideRefreshUseCase,
	appalert.NewListAlertsUseCase,
	provideMarkViewedUseCase,
	provideMarkResolvedUseCase,
	provideObsoleteUseCase,
	provideClassificationUseCase,
	appinventory.NewAdjustStockUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewAlertHandler,
	handler.NewAnalysisHandler,
	handler.NewInventoryHandler,
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)
}

// provideBadgeStore 从Redis客户端创建角标存储
func provideBadgeStore(client *goredis.Client) *redis.BadgeStore {
	return redis.NewBadgeStore(client)
}

// provideBreaker 数据源熔断器
// 连续5次失败打开，60秒后半开放行2个探测请求
func provideBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker("stock-provider", circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// provideEventPublisher 事件发布器（MQ未开启时返回nil，发布自动跳过）
func provideEventPublisher(cfg *config.Config) (alert.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, err
	}
	return messaging.NewAlertPublisher(mqPublisher), nil
}

func provideRefreshUseCase(
	cfg *config.Config,
	productRepo product.Repository,
	store *alert.Store,
	breaker *circuitbreaker.CircuitBreaker,
	publisher alert.EventPublisher,
	badge *redis.BadgeStore,
) *appalert.RefreshUseCase {
	return appalert.NewRefreshUseCase(productRepo, store, breaker, publisher, badge, cfg.Alert.ProviderTimeout)
}

func provideMarkViewedUseCase(
	cfg *config.Config,
	store *alert.Store,
	mirror alert.Mirror,
) *appalert.MarkViewedUseCase {
	return appalert.NewMarkViewedUseCase(store, mirror, cfg.Alert.MirrorTimeout)
}

func provideMarkResolvedUseCase(
	cfg *config.Config,
	store *alert.Store,
	mirror alert.Mirror,
	publisher alert.EventPublisher,
	badge *redis.BadgeStore,
) *appalert.MarkResolvedUseCase {
	return appalert.NewMarkResolvedUseCase(store, mirror, publisher, badge, cfg.Alert.MirrorTimeout)
}

func provideObsoleteUseCase(cfg *config.Config, productRepo product.Repository) *appanalysis.ObsoleteProductsUseCase {
	return appanalysis.NewObsoleteProductsUseCase(productRepo, cfg.Alert.IdleThresholdDays)
}

func provideClassificationUseCase(cfg *config.Config, productRepo product.Repository) *appanalysis.ClassificationUseCase {
	return appanalysis.NewClassificationUseCase(productRepo, cfg.Alert.RotationWindowDays)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册直接在这里完成，避免与main.go中的registerRoutes冲突
func provideGinEngine(
	cfg *config.Config,
	alertHandler *handler.AlertHandler,
	analysisHandler *handler.AnalysisHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", alertHandler.ListAlerts)
			alerts.GET("/badge", alertHandler.Badge)
			alerts.POST("/badge/clear", alertHandler.ClearBadge)
			alerts.POST("/refresh", alertHandler.Refresh)
			alerts.GET("/:id", alertHandler.GetAlert)
			alerts.POST("/:id/viewed", alertHandler.MarkViewed)
			alerts.POST("/:id/resolved",
				authMiddleware.RequireRole("manager", "admin"),
				alertHandler.MarkResolved)
		}

		analysis := v1.Group("/analysis")
		{
			analysis.GET("/obsolete", analysisHandler.ObsoleteProducts)
			analysis.GET("/classification", analysisHandler.Classification)
		}

		products := v1.Group("/products")
		{
			products.GET("/:id/movements", inventoryHandler.ListMovements)
			products.POST("/:id/stock",
				authMiddleware.RequireRole("manager", "admin"),
				inventoryHandler.AdjustStock)
		}
	}

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 依赖链：*gin.Engine ← Handler ← UseCase ← Store/Repository ← *gorm.DB ← *config.Config
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回值，实际初始化代码由Wire生成在wire_gen.go中
	return nil, nil
}
