package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/booking"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var days int
	var ownerID string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机商家, 2: 为商家插入随机预约, 3: 从 CSV 导入客户)")
	flag.IntVar(&n, "n", 5, "要插入的商家数量")
	flag.IntVar(&days, "days", 7, "从今天起为多少天生成预约")
	flag.StringVar(&ownerID, "owner-id", "", "商家所有者的 ID")
	flag.StringVar(&file, "file", "", "要导入的 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的商家数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			if err := seedOwner(repo, cfg.Seed.EmailDomain); err != nil {
				slog.Error("无法插入商家", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入商家成功", slog.Int("count", cnt))
	case 2:
		if ownerID == "" {
			slog.Error("请输入商家所有者的 ID")
			return
		}
		if days <= 0 {
			slog.Error("请输入合法的天数")
			return
		}

		location, err := time.LoadLocation(cfg.Booking.Timezone)
		if err != nil {
			slog.Error("无法加载时区", slog.String("error", err.Error()))
			return
		}

		cnt, err := seedAppointments(repo, ownerID, civil.DateOf(time.Now().In(location)), days)
		if err != nil {
			slog.Error("无法插入预约", slog.String("error", err.Error()))
			return
		}

		slog.Info("插入预约成功", slog.Int("count", cnt))
	case 3:
		if ownerID == "" || file == "" {
			slog.Error("请输入商家所有者的 ID 和 CSV 文件路径")
			return
		}

		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		if _, err := seed.ImportClients(repo, ownerID, f); err != nil {
			slog.Error("导入客户失败", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}

// seedOwner 插入一个随机的商家所有者，以及他的店铺、工作周、服务和客户
func seedOwner(repo *repository.Repository, emailDomain string) error {
	user := utils.GenerateRandomUser(emailDomain)
	if err := repo.CreateUser(user); err != nil {
		return err
	}

	if err := repo.CreateBusiness(utils.GenerateRandomBusiness(user)); err != nil {
		return err
	}

	composer := booking.NewComposer(repo, nil)
	workWeekID, err := composer.CreateWeek(user.ID)
	if err != nil {
		return err
	}
	if _, err := composer.CreateSevenDays(workWeekID, utils.GenerateRandomWeek()); err != nil {
		return err
	}

	for _, s := range utils.GenerateRandomServices(user.ID, 4) {
		if err := repo.CreateService(s); err != nil {
			return err
		}
	}

	for i := 0; i < 10; i++ {
		if err := repo.CreateClient(utils.GenerateRandomClient(user.ID, emailDomain)); err != nil {
			// 随机手机号可能重复，跳过即可
			slog.Warn("无法插入客户", slog.String("error", err.Error()))
		}
	}

	slog.Info("插入商家", slog.String("owner_id", user.ID), slog.String("full_name", user.FullName))
	return nil
}

// seedAppointments 从 from 开始的 days 天内为商家生成预约，通过预约服务插入以保证不重叠
func seedAppointments(repo *repository.Repository, ownerID string, from civil.Date, days int) (int, error) {
	clients, err := repo.GetClientsByOwnerID(ownerID)
	if err != nil {
		return 0, err
	}
	services, err := repo.GetServicesByOwnerID(ownerID)
	if err != nil {
		return 0, err
	}

	composer := booking.NewComposer(repo, nil)
	// 不传 notifier，生成的数据不发送邮件
	svc := booking.NewService(repo, nil, composer, nil, booking.Options{})

	cnt := 0
	for i := 0; i < days; i++ {
		date := from.AddDays(i)
		day, err := composer.DayOf(ownerID, date)
		if err != nil {
			return cnt, err
		}

		for _, appt := range utils.GenerateRandomAppointments(ownerID, date, day, clients, services) {
			if err := svc.CreateAppointment(appt); err != nil {
				var overlapErr *domain.OverlapError
				if errors.As(err, &overlapErr) {
					// 已经有预约的时间段直接跳过
					continue
				}
				return cnt, err
			}
			cnt++
		}
	}
	return cnt, nil
}
