package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"codecompare-backend/internal/backend"
	"codecompare-backend/internal/config"
	"codecompare-backend/internal/handler"
	"codecompare-backend/internal/hub"
	"codecompare-backend/internal/prompt"
	"codecompare-backend/internal/service"
	"codecompare-backend/internal/storage"
	"codecompare-backend/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// .env 可选，密钥通常由它提供
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 共享状态：历史窗口和最近结果缓存
	history := storage.NewHistoryStore(cfg.Generation.HistorySize)
	results, err := storage.NewResultsCache(cfg.Generation.HistorySize)
	if err != nil {
		logger.Fatalf("Failed to init results cache: %v", err)
	}

	// 广播 hub，历史变更时推送快照
	viewerHub := hub.NewHub(history.Snapshot)
	go viewerHub.Run()
	history.SetOnChange(viewerHub.BroadcastHistory)

	// 生成链路：模板 → 上下文构建 → 后端集合 → 调度
	resolver := prompt.NewResolver(cfg.Prompts.Dir)
	builder := prompt.NewBuilder(resolver)
	backends := backend.NewSet(cfg)
	dispatcher := service.NewDispatcher(backends, builder, history, cfg.Generation.ContextWindow, cfg.Generation.MaxAttempts)

	compareService := service.NewCompareService(dispatcher, history, results, cfg.Generation.AllowedLanguages)
	transcribeService := service.NewTranscribeService(cfg.Whisper)

	compareHandler := handler.NewCompareHandler(compareService, transcribeService)
	wsHandler := handler.NewWSHandler(viewerHub)

	router := setupRouter(cfg, compareHandler, wsHandler)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func setupRouter(cfg *config.Config, compareHandler *handler.CompareHandler, wsHandler *handler.WSHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Code Editor Backend API",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	router.POST("/execute", compareHandler.Execute)
	router.POST("/compare", compareHandler.Compare)
	router.GET("/ws", wsHandler.Serve)

	api := router.Group("/api")
	{
		api.GET("/history", compareHandler.History)
		api.DELETE("/history", compareHandler.ClearHistory)
		api.GET("/results", compareHandler.RecentResults)
		api.POST("/transcribe", compareHandler.Transcribe)
	}

	return router
}
