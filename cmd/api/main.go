package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/workflow"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 标准套餐目录，服务启动时写入数据库（同名套餐已存在时跳过）
var standardPackages = []*domain.Package{
	{Name: "基础套餐", Price: 500, EmployeeLimit: 5},
	{Name: "进阶套餐", Price: 800, EmployeeLimit: 10},
	{Name: "旗舰套餐", Price: 1500, EmployeeLimit: 20},
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 确保数据库中存在标准套餐目录
	 **********************************************/
	for _, pkg := range standardPackages {
		if err := repo.EnsurePackage(pkg); err != nil {
			logger.Error("无法初始化套餐目录", "package", pkg.Name, "error", err)
			return
		}
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 声明队列
	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * 创建支付客户端和工作流引擎
	 **********************************************/
	payClient := payment.NewClient(cfg)
	engine := workflow.NewEngine(cfg, repo, payClient, rdb)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, engine, payClient, ch)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
