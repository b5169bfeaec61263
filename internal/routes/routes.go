package routes

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/controllers"
	"asset-system/internal/listeners"
	"asset-system/internal/repositories"
	"asset-system/internal/services"
	"asset-system/pkg/config"
	"asset-system/pkg/eventbus"
	"asset-system/pkg/metrics"
	"asset-system/pkg/middleware"
	"asset-system/pkg/service"
	"asset-system/pkg/websocket"
)

// Окно, в котором сбросы кэша дашборда склеиваются в один.
const dashboardInvalidateDebounce = 2 * time.Second

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Asset *zap.Logger
	Work  *zap.Logger
}

// Runtime - то, что main запускает и останавливает помимо HTTP.
type Runtime struct {
	Listener  *listeners.ActivityListener
	Snapshots *services.DepreciationSnapshotService
	Feed      *websocket.Hub
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) *Runtime {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 1. РЕПОЗИТОРИИ ---
	staffRepo := repositories.NewStaffRepository(dbConn, loggers.Main)
	assetRepo := repositories.NewAssetRepository(dbConn, loggers.Asset)
	snapshotRepo := repositories.NewDepreciationSnapshotRepository(dbConn)
	operationRepo := repositories.NewOperationRepository(dbConn, loggers.Work)
	taskRepo := repositories.NewTaskRepository(dbConn, loggers.Work)
	purchaseRepo := repositories.NewPurchaseRepository(dbConn, loggers.Main)
	historyRepo := repositories.NewStatusHistoryRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(staffRepo, cacheRepo, jwtSvc, loggers.Auth, &cfg.Auth)
	staffService := services.NewStaffService(staffRepo, loggers.Main)
	assetService := services.NewAssetService(assetRepo, snapshotRepo, txManager, bus, loggers.Asset)
	operationService := services.NewOperationService(operationRepo, staffRepo, historyRepo, txManager, bus, loggers.Work)
	taskService := services.NewTaskService(taskRepo, staffRepo, historyRepo, txManager, bus, loggers.Work)
	purchaseService := services.NewPurchaseService(purchaseRepo, historyRepo, txManager, bus, loggers.Main)
	dashboardService := services.NewDashboardService(dashboardRepo, assetRepo, cacheRepo, cfg.Cache.DashboardTTL, loggers.Main)
	snapshotService := services.NewDepreciationSnapshotService(assetRepo, snapshotRepo, loggers.Asset)

	activityListener := listeners.NewActivityListener(dashboardService, dashboardInvalidateDebounce, loggers.Main)
	activityListener.Register(bus)
	feedHub := websocket.NewHub(loggers.Main.Named("feed"))
	listeners.NewNotificationListener(feedHub, loggers.Main).Register(bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	staffController := controllers.NewStaffController(staffService, loggers.Main)
	assetController := controllers.NewAssetController(assetService, loggers.Asset)
	operationController := controllers.NewOperationController(operationService, loggers.Work)
	taskController := controllers.NewTaskController(taskService, loggers.Work)
	purchaseController := controllers.NewPurchaseController(purchaseService, loggers.Main)
	dashboardController := controllers.NewDashboardController(dashboardService, loggers.Main)
	optionsController := controllers.NewOptionsController(services.NewOptionsService())
	wsController := controllers.NewWebSocketController(feedHub, jwtSvc, loggers.Main)
	healthController := controllers.NewHealthController(
		dbConn,
		controllers.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		loggers.Main,
	)

	// --- 4. РОУТЕРЫ ---
	e.GET("/health", healthController.Check)
	e.GET("/metrics", metrics.Handler())

	runAuthRouter(api, authController, authMW)
	api.GET("/ws/activity", wsController.ServeActivity)

	secureGroup := api.Group("", authMW.Auth)
	runStaffRouter(secureGroup, staffController)
	runAssetRouter(secureGroup, assetController)
	runOperationRouter(secureGroup, operationController)
	runTaskRouter(secureGroup, taskController)
	runPurchaseRouter(secureGroup, purchaseController)
	secureGroup.GET("/dashboard/summary", dashboardController.GetSummary)
	secureGroup.GET("/options", optionsController.GetOptions)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
	return &Runtime{Listener: activityListener, Snapshots: snapshotService, Feed: feedHub}
}
