package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrcontact-platform/internal/analytics"
	"qrcontact-platform/internal/config"
	"qrcontact-platform/internal/contact"
	"qrcontact-platform/internal/handler"
	"qrcontact-platform/internal/middleware"
	"qrcontact-platform/internal/qrimage"
	"qrcontact-platform/pkg/database"
	"qrcontact-platform/pkg/logger"
	"qrcontact-platform/pkg/metrics"
	"qrcontact-platform/pkg/redis"

	"qrcontact-platform/docs"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const appName = "qrcontact"

// @title           QR Contact API
// @version         1.0
// @description     vCard 与二维码生成、扫描统计服务
// @BasePath        /

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "vCard / QR code generator with scan analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "只执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "打印版本信息",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Printf("%s version %s\n", cfg.App.Name, cfg.App.Version)
			return nil
		},
	})

	return cmd
}

// bootstrap 加载配置、初始化日志并打开数据库
func bootstrap(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("配置加载失败: %w", err)
	}

	logger.InitLogger(cfg.Log)
	sugaredLogger := zap.S()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	sugaredLogger.Infow("✅ 数据库连接成功", "driver", cfg.Database.Driver)

	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	sugaredLogger.Info("✅ 数据库迁移成功")
	return cfg, db, nil
}

func migrate(configPath string) error {
	_, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer syncLogger()
	return database.Close(db)
}

func serve(configPath string) error {
	cfg, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer syncLogger()
	defer func() {
		if err := database.Close(db); err != nil {
			zap.S().Errorf("关闭数据库连接失败: %v", err)
		}
	}()
	sugaredLogger := zap.S()

	rdb, err := redis.NewClient(cfg.Cache)
	if err != nil {
		sugaredLogger.Warnf("缓存连接失败，将不使用缓存: %v", err)
	} else if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
			}
		}()
		sugaredLogger.Info("✅ 缓存连接成功")
	}

	level, err := qrimage.ParseLevel(cfg.QR.ErrorCorrection)
	if err != nil {
		return err
	}
	producer := qrimage.NewProducer(sugaredLogger, qrimage.WithDefaults(qrimage.Options{
		Width:  cfg.QR.Width,
		Margin: cfg.QR.Margin,
		Level:  level,
		Dark:   cfg.QR.Dark,
		Light:  cfg.QR.Light,
	}))
	repo := contact.NewRepository(db, rdb, time.Duration(cfg.Cache.ContactTTL)*time.Second, sugaredLogger)
	aggregator := analytics.NewAggregator(db, sugaredLogger)

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.RateLimit(&cfg.RateLimit))

	docs.SwaggerInfo.Version = cfg.App.Version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", metrics.Handler())

	debug := cfg.App.IsDevelopment()
	handler.RegisterRoutes(router,
		handler.NewContactHandler(repo, producer, aggregator, debug),
		handler.NewQRHandler(repo, producer, aggregator, debug),
		handler.NewAnalyticsHandler(aggregator, debug),
		handler.NewHealthHandler(cfg.App.Version),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sugaredLogger.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务关闭失败: %w", err)
	}
	sugaredLogger.Info("👋 服务已关闭")
	return nil
}

func syncLogger() {
	if logger.Logger == nil {
		return
	}
	// stdout 上的 Sync 可能返回 EINVAL，忽略即可
	_ = logger.Logger.Sync()
}
