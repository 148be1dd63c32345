package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appalert "github.com/lubrimax/lubestock/internal/application/alert"
	appanalysis "github.com/lubrimax/lubestock/internal/application/analysis"
	appinventory "github.com/lubrimax/lubestock/internal/application/inventory"
	"github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/infrastructure/config"
	"github.com/lubrimax/lubestock/internal/infrastructure/messaging"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/mysql"
	"github.com/lubrimax/lubestock/internal/infrastructure/persistence/redis"
	"github.com/lubrimax/lubestock/internal/interface/http/handler"
	"github.com/lubrimax/lubestock/internal/interface/http/middleware"
	"github.com/lubrimax/lubestock/pkg/circuitbreaker"
	"github.com/lubrimax/lubestock/pkg/jwt"
	"github.com/lubrimax/lubestock/pkg/metrics"
	"github.com/lubrimax/lubestock/pkg/mq"
	"github.com/lubrimax/lubestock/pkg/response"
	"github.com/lubrimax/lubestock/pkg/scheduler"
	"github.com/lubrimax/lubestock/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go中的Wire版本供生成wire_gen.go使用）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 刷新间隔: %s (0表示纯手动触发)\n", cfg.Alert.RefreshInterval)

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("lubestock-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer shutdown(context.Background())
		fmt.Printf("✓ 链路追踪已开启: %s\n", cfg.Tracing.Endpoint)
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化消息队列（可选，未开启时事件发布自动跳过）
	var publisher alert.EventPublisher
	if cfg.MQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		defer mqPublisher.Close()
		publisher = messaging.NewAlertPublisher(mqPublisher)
		fmt.Printf("✓ 消息队列已接入: exchange=%s\n", cfg.MQ.Exchange)
	}

	// 7. 依赖注入（手动组装）
	// Repository ← Store/UseCase ← Handler

	// 基础设施层
	productRepo := mysql.NewProductRepository(db)
	movementRepo := mysql.NewMovementRepository(db)
	alertMirror := mysql.NewAlertMirror(db)
	txManager := mysql.NewTxManager(db)
	badgeStore := redis.NewBadgeStore(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// 数据源熔断器
	// 连续5次失败打开，60秒后半开放行2个探测请求
	breaker := circuitbreaker.NewCircuitBreaker("stock-provider", circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 领域层:告警集合的唯一权威副本
	alertStore := alert.NewStore()

	// 应用层
	refreshUseCase := appalert.NewRefreshUseCase(
		productRepo, alertStore, breaker, publisher, badgeStore, cfg.Alert.ProviderTimeout)
	listAlertsUseCase := appalert.NewListAlertsUseCase(alertStore, badgeStore)
	markViewedUseCase := appalert.NewMarkViewedUseCase(alertStore, alertMirror, cfg.Alert.MirrorTimeout)
	markResolvedUseCase := appalert.NewMarkResolvedUseCase(
		alertStore, alertMirror, publisher, badgeStore, cfg.Alert.MirrorTimeout)
	obsoleteUseCase := appanalysis.NewObsoleteProductsUseCase(productRepo, cfg.Alert.IdleThresholdDays)
	classificationUseCase := appanalysis.NewClassificationUseCase(productRepo, cfg.Alert.RotationWindowDays)
	adjustStockUseCase := appinventory.NewAdjustStockUseCase(productRepo, movementRepo, txManager)

	// 接口层
	alertHandler := handler.NewAlertHandler(
		refreshUseCase, listAlertsUseCase, markViewedUseCase, markResolvedUseCase)
	analysisHandler := handler.NewAnalysisHandler(obsoleteUseCase, classificationUseCase)
	inventoryHandler := handler.NewInventoryHandler(adjustStockUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// 8. 周期刷新（可选，refresh_interval=0时纯手动触发）
	refreshScheduler := scheduler.New("alert-refresh", cfg.Alert.RefreshInterval,
		func(ctx context.Context) error {
			_, err := refreshUseCase.Execute(ctx)
			return err
		})
	if refreshScheduler.Enabled() {
		refreshScheduler.Start(context.Background())
		defer refreshScheduler.Stop()
		fmt.Printf("✓ 周期刷新已开启: 每%s一轮\n", cfg.Alert.RefreshInterval)
	}

	// 9. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 10. 注册路由
	registerRoutes(r, alertHandler, analysisHandler, inventoryHandler, authMiddleware)

	// 11. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   告警列表: GET  http://localhost%s/api/v1/alerts (需要登录)\n", addr)
	fmt.Printf("   触发刷新: POST http://localhost%s/api/v1/alerts/refresh (需要登录)\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	alertHandler *handler.AlertHandler,
	analysisHandler *handler.AnalysisHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组（全部需要登录）
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// 告警模块
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", alertHandler.ListAlerts)
			alerts.GET("/badge", alertHandler.Badge)
			alerts.POST("/badge/clear", alertHandler.ClearBadge)
			alerts.POST("/refresh", alertHandler.Refresh)
			alerts.GET("/:id", alertHandler.GetAlert)
			alerts.POST("/:id/viewed", alertHandler.MarkViewed)

			// "标记已处理"只开放给店长和管理员
			alerts.POST("/:id/resolved",
				authMiddleware.RequireRole("manager", "admin"),
				alertHandler.MarkResolved)
		}

		// 分析模块
		analysis := v1.Group("/analysis")
		{
			analysis.GET("/obsolete", analysisHandler.ObsoleteProducts)
			analysis.GET("/classification", analysisHandler.Classification)
		}

		// 库存模块
		products := v1.Group("/products")
		{
			products.GET("/:id/movements", inventoryHandler.ListMovements)

			// 库存调整只开放给店长和管理员
			products.POST("/:id/stock",
				authMiddleware.RequireRole("manager", "admin"),
				inventoryHandler.AdjustStock)
		}
	}
}
