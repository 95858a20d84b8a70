package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/cache"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/mailqueue"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/reminder"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

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

	location, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Booking.Timezone, "error", err)
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
	if _, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.MailQueue); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}
	publisher := mailqueue.NewPublisher(cfg, ch)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer redisCancel()
	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}
	scheduleCache := cache.NewCache(cfg, rdb)

	/**********************************************
	 * 创建预约服务
	 **********************************************/
	composer := booking.NewComposer(repo, scheduleCache)
	svc := booking.NewService(repo, repo, composer, publisher, booking.Options{
		Location:            location,
		EnforceWorkingHours: cfg.Booking.EnforceWorkingHours,
		DefaultSlotDuration: cfg.Booking.DefaultSlotDuration,
	})

	/**********************************************
	 * 启动预约提醒
	 **********************************************/
	workerCtx, workerCancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	if cfg.Reminder.Enabled {
		worker := reminder.NewWorker(repo, repo, scheduleCache, publisher, logger, reminder.WorkerConfig{
			Interval: time.Duration(cfg.Reminder.Interval) * time.Second,
			LeadDays: cfg.Reminder.LeadDays,
			Location: location,
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("预约提醒已启动", "interval", cfg.Reminder.Interval, "leadDays", cfg.Reminder.LeadDays)
			worker.Run(workerCtx)
		}()
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, svc, composer)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		workerCancel()
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

	// 先停止提醒任务，避免关闭过程中继续投递邮件
	workerCancel()
	wg.Wait()

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
