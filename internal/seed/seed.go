package seed

import (
	"database/sql"
	"errors"
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/workflow"
)

const demoHREmail = "hr@demo.test"

// SeedDemoData 插入一套完整的演示数据：
// 一个 HR、一笔已入账的套餐支付、若干资产和员工，
// 以及部分员工的申请和直接分配记录。
func SeedDemoData(cfg *config.Config, repo *repository.Repository) {
	// HR 账号，已经存在时直接复用
	hr, err := repo.GetAccountByEmail(demoHREmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			hr = &domain.Account{
				Email:       demoHREmail,
				Name:        "演示管理员",
				Role:        domain.RoleHR,
				CompanyName: "演示科技有限公司",
			}
			if err := repo.CreateAccount(hr); err != nil {
				slog.Error("无法插入 HR 账号", slog.String("error", err.Error()))
				return
			}
		default:
			slog.Error("无法获取 HR 账号", slog.String("error", err.Error()))
			return
		}
	}

	// 通过一笔演示支付为 HR 充值员工名额，走的是正式的入账事务
	payment := &domain.Payment{
		HREmail:       hr.Email,
		PackageName:   "旗舰套餐",
		TransactionID: utils.GenerateRandomTransactionID(),
		Amount:        1500,
		EmployeeLimit: 20,
		Status:        "paid",
	}
	if err := repo.RecordPaymentTx(payment); err != nil {
		slog.Error("无法插入演示支付", slog.String("error", err.Error()))
		return
	}

	// 资产
	assets := make([]*domain.Asset, 0, cfg.Seed.AssetNumber)
	for i := 0; i < cfg.Seed.AssetNumber; i++ {
		asset := utils.GenerateRandomAsset(hr.Email)
		if err := repo.CreateAsset(asset); err != nil {
			slog.Error("无法插入资产", slog.String("error", err.Error()))
			continue
		}
		assets = append(assets, asset)
	}
	if len(assets) == 0 {
		slog.Error("没有成功插入任何资产")
		return
	}

	// 员工账号，其中一部分提交申请，一部分由 HR 直接分配
	engine := workflow.NewEngine(cfg, repo, nil, nil)
	submitted, assigned := 0, 0
	for i := 0; i < cfg.Seed.EmployeeNumber; i++ {
		employee := utils.GenerateRandomEmployee("demo.test")
		if err := repo.CreateAccount(employee); err != nil {
			slog.Error("无法插入员工账号", slog.String("error", err.Error()))
			continue
		}

		asset := assets[rand.Intn(len(assets))]
		switch i % 3 {
		case 0:
			if _, err := engine.SubmitRequest(employee, asset.ID, hr.Email); err != nil {
				slog.Error("无法插入申请", slog.String("error", err.Error()))
				continue
			}
			submitted++
		case 1:
			if _, err := engine.AssignDirectly(hr.Email, employee.Email, asset.ID); err != nil {
				slog.Error("无法插入分配记录", slog.String("error", err.Error()))
				continue
			}
			assigned++
		}
	}

	slog.Info("演示数据插入成功",
		slog.Int("assets", len(assets)),
		slog.Int("requests", submitted),
		slog.Int("assignments", assigned),
	)
}
