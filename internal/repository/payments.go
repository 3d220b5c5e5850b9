package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) GetAllPackages() ([]*domain.Package, error) {
	query := `
		SELECT id, name, price, employee_limit FROM packages ORDER BY price
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0)
	for rows.Next() {
		pkg := &domain.Package{}
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Price, &pkg.EmployeeLimit); err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}

func (r *Repository) GetPackageByID(id int64) (*domain.Package, error) {
	query := `
		SELECT name, price, employee_limit FROM packages WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	pkg := &domain.Package{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&pkg.Name, &pkg.Price, &pkg.EmployeeLimit); err != nil {
		return nil, err
	}

	return pkg, nil
}

// EnsurePackage 在目录中不存在同名套餐时插入，用于服务启动时初始化套餐目录
func (r *Repository) EnsurePackage(pkg *domain.Package) error {
	query := `
		INSERT INTO packages (name, price, employee_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, pkg.Name, pkg.Price, pkg.EmployeeLimit); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPaymentByTransactionID(transactionID string) (*domain.Payment, error) {
	query := `
		SELECT id, hr_email, package_name, amount, employee_limit, payment_date, status
		FROM payments WHERE transaction_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	payment := &domain.Payment{
		TransactionID: transactionID,
	}

	dst := []any{&payment.ID, &payment.HREmail, &payment.PackageName, &payment.Amount, &payment.EmployeeLimit, &payment.PaymentDate, &payment.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, transactionID).Scan(dst...); err != nil {
		return nil, err
	}

	return payment, nil
}

func (r *Repository) GetPaymentsByHR(hrEmail string) ([]*domain.Payment, error) {
	query := `
		SELECT id, package_name, transaction_id, amount, employee_limit, payment_date, status
		FROM payments WHERE hr_email = $1 ORDER BY payment_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hrEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment := &domain.Payment{
			HREmail: hrEmail,
		}
		dst := []any{&payment.ID, &payment.PackageName, &payment.TransactionID, &payment.Amount, &payment.EmployeeLimit, &payment.PaymentDate, &payment.Status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
