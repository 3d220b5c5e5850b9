package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// 工作流中的多表写入必须落在同一个事务里，
// 计数器的递减使用条件更新，避免两个并发请求同时越过余额检查。

type txExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) decrementPackageLimit(ctx context.Context, tx txExecutor, hrEmail string, newEmployee bool) error {
	delta := 0
	if newEmployee {
		delta = 1
	}

	query := `
		UPDATE accounts
		SET package_limit = package_limit - 1,
			current_employees = current_employees + $1,
			version = version + 1
		WHERE email = $2 AND package_limit > 0
	`

	result, err := tx.ExecContext(ctx, query, delta, hrEmail)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLimitExhausted
	}

	return nil
}

func (r *Repository) insertAssignment(ctx context.Context, tx txExecutor, assignment *domain.Assignment) error {
	query := `
		INSERT INTO asset_assignments (asset_id, asset_name, asset_type, asset_image, employee_email, hr_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, assignment_date
	`

	args := []any{assignment.AssetID, assignment.AssetName, assignment.AssetType, assignment.AssetImage, assignment.EmployeeEmail, assignment.HREmail, assignment.Status}
	return tx.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &assignment.AssignmentDate)
}

func (r *Repository) insertAffiliation(ctx context.Context, tx txExecutor, affiliation *domain.Affiliation) error {
	query := `
		INSERT INTO affiliations (employee_email, hr_email, company_name, company_logo, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, affiliation_date
	`

	args := []any{affiliation.EmployeeEmail, affiliation.HREmail, affiliation.CompanyName, affiliation.CompanyLogo, affiliation.Status}
	return tx.QueryRowContext(ctx, query, args...).Scan(&affiliation.ID, &affiliation.AffiliationDate)
}

// ApproveRequestTx 在一个事务内完成审批的全部写入：
// 扣减资产库存、扣减 HR 名额（新员工时增加在职人数）、插入分配记录、
// 首次关联时插入从属关系、把申请标记为已批准。
// affiliation 为 nil 表示该员工已经属于这个 HR，不再新建从属关系。
func (r *Repository) ApproveRequestTx(request *domain.Request, assignment *domain.Assignment, affiliation *domain.Affiliation) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE assets
		SET available_quantity = available_quantity - 1, version = version + 1
		WHERE id = $1 AND available_quantity > 0
	`
	result, err := tx.ExecContext(ctx, query, request.AssetID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssetExhausted
	}

	if err := r.decrementPackageLimit(ctx, tx, request.HREmail, affiliation != nil); err != nil {
		return err
	}

	if err := r.insertAssignment(ctx, tx, assignment); err != nil {
		return err
	}

	if affiliation != nil {
		if err := r.insertAffiliation(ctx, tx, affiliation); err != nil {
			return err
		}
	}

	query = `
		UPDATE asset_requests
		SET request_status = $1, approval_date = now()
		WHERE id = $2
		RETURNING approval_date
	`
	var approvalDate time.Time
	if err := tx.QueryRowContext(ctx, query, domain.RequestStatusApproved, request.ID).Scan(&approvalDate); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	request.RequestStatus = domain.RequestStatusApproved
	request.ApprovalDate = &approvalDate
	return nil
}

// AssignDirectlyTx 在一个事务内完成直接分配的写入，
// 与审批不同，直接分配不扣减资产库存，只占用 HR 的员工名额。
func (r *Repository) AssignDirectlyTx(assignment *domain.Assignment, affiliation *domain.Affiliation) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.decrementPackageLimit(ctx, tx, assignment.HREmail, affiliation != nil); err != nil {
		return err
	}

	if err := r.insertAssignment(ctx, tx, assignment); err != nil {
		return err
	}

	if affiliation != nil {
		if err := r.insertAffiliation(ctx, tx, affiliation); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecordPaymentTx 在一个事务内记录支付并为 HR 增加员工名额。
// transaction_id 上的唯一约束保证同一笔交易至多入账一次，
// 冲突时由调用方读取已有记录返回。
func (r *Repository) RecordPaymentTx(payment *domain.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO payments (hr_email, package_name, transaction_id, amount, employee_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, payment_date
	`
	args := []any{payment.HREmail, payment.PackageName, payment.TransactionID, payment.Amount, payment.EmployeeLimit, payment.Status}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &payment.PaymentDate); err != nil {
		return err
	}

	query = `
		UPDATE accounts
		SET package_limit = package_limit + $1, version = version + 1
		WHERE email = $2
	`
	if _, err := tx.ExecContext(ctx, query, payment.EmployeeLimit, payment.HREmail); err != nil {
		return err
	}

	return tx.Commit()
}
