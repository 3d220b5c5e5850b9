package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) CreateAccount(account *domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO accounts (email, name, role, profile_image, date_of_birth, company_name, company_logo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, package_limit, current_employees, created_at, version
	`

	args := []any{account.Email, account.Name, account.Role, account.ProfileImage, account.DateOfBirth, account.CompanyName, account.CompanyLogo}
	dst := []any{&account.ID, &account.PackageLimit, &account.CurrentEmployees, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAccountByEmail(email string) (*domain.Account, error) {
	query := `
		SELECT id, name, role, profile_image, date_of_birth, company_name, company_logo, package_limit, current_employees, created_at, version
		FROM accounts WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		Email: email,
	}

	dst := []any{&account.ID, &account.Name, &account.Role, &account.ProfileImage, &account.DateOfBirth, &account.CompanyName, &account.CompanyLogo, &account.PackageLimit, &account.CurrentEmployees, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) UpdateAccount(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET
			name = $1,
			profile_image = $2,
			date_of_birth = $3,
			company_name = $4,
			company_logo = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{account.Name, account.ProfileImage, account.DateOfBirth, account.CompanyName, account.CompanyLogo, account.ID, account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&account.CreatedAt, &account.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAccountRole(email string) (domain.Role, error) {
	query := `
		SELECT role FROM accounts WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var role domain.Role
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&role); err != nil {
		return "", err
	}

	return role, nil
}
