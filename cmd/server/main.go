// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"succession-go/internal/config"
	"succession-go/internal/handler"
	"succession-go/internal/hierarchy"
	"succession-go/internal/repository"
	"succession-go/internal/service"
	"succession-go/pkg/database"
	"succession-go/pkg/events"
	"succession-go/pkg/kafka"
	"succession-go/pkg/log"
	"succession-go/pkg/metrics"
	"succession-go/pkg/storage"
	"succession-go/pkg/token"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	// 1. 初始化配置
	configPath := defaultConfigPath
	if p := os.Getenv("SUCCESSION_CONFIG"); p != "" {
		configPath = p
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 按需初始化名册来源依赖的外部服务
	source := strings.ToLower(cfg.Roster.Source)
	var deps repository.SourceDeps
	if source == "mysql" {
		database.InitMySQL(cfg.Database.MySQL.DSN)
		deps.DB = database.DB
	}
	needRedis := source == "redis" || (cfg.Kafka.Enabled && cfg.Kafka.CommandTopic != "")
	if needRedis {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		deps.Redis = database.RDB
	}
	if source == "minio" {
		if err := storage.InitMinIO(cfg.MinIO); err != nil {
			log.Fatal("MinIO 初始化失败", err)
		}
		deps.Objects = storage.NewBucketReader(storage.MinioClient, cfg.MinIO.BucketName)
	}

	rosterSource, err := repository.NewMemberSource(cfg.Roster, deps)
	if err != nil {
		log.Fatal("名册来源配置无效", err)
	}

	// 4. 初始化引擎和 Service
	opts, err := hierarchy.MergeOptions(hierarchy.DefaultOptions(), cfg.Hierarchy)
	if err != nil {
		log.Fatal("hierarchy 配置无效", err)
	}
	engine := hierarchy.NewEngine(opts)
	recorder := metrics.New()

	var publisher events.Publisher = events.NopPublisher()
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka)
		publisher = producer
	}

	hierarchyService := service.NewHierarchyService(engine, rosterSource, publisher, recorder)
	if rosterSource != nil {
		n, err := hierarchyService.Reload(context.Background())
		if err != nil {
			log.Fatal("初始名册加载失败", err)
		}
		log.Infof("已从 %s 导入 %d 名成员", rosterSource.Name(), n)
	} else {
		log.Info("未配置名册来源，以空集合启动")
	}

	// 5. 启动后台 Kafka 命令消费者
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if cfg.Kafka.Enabled && cfg.Kafka.CommandTopic != "" {
		counter := kafka.NewRedisAttemptCounter(database.RDB, 24*time.Hour)
		go kafka.StartConsumer(consumerCtx, cfg.Kafka, hierarchyService, counter)
	}

	// 6. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours)
	r := setupRouter(handler.NewMemberHandler(hierarchyService), jwtManager, recorder)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	stopConsumer()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	log.Info("服务已优雅关闭")
}
