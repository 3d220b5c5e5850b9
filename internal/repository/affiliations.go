package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) CheckAffiliationExists(employeeEmail string, hrEmail string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM affiliations WHERE employee_email = $1 AND hr_email = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, employeeEmail, hrEmail).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// GetRosterByHR 返回某个 HR 名下的所有员工，并附带每人持有的资产数量
func (r *Repository) GetRosterByHR(hrEmail string) ([]*domain.RosterEmployee, error) {
	query := `
		SELECT
			af.employee_email,
			ac.name,
			ac.profile_image,
			af.affiliation_date,
			COUNT(aa.id) FILTER (WHERE aa.status = 'assigned')
		FROM affiliations af
		JOIN accounts ac ON ac.email = af.employee_email
		LEFT JOIN asset_assignments aa ON aa.employee_email = af.employee_email AND aa.hr_email = af.hr_email
		WHERE af.hr_email = $1
		GROUP BY af.employee_email, ac.name, ac.profile_image, af.affiliation_date
		ORDER BY af.affiliation_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hrEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]*domain.RosterEmployee, 0)
	for rows.Next() {
		employee := &domain.RosterEmployee{}
		dst := []any{&employee.Email, &employee.Name, &employee.ProfileImage, &employee.AffiliationAt, &employee.AssetCount}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		roster = append(roster, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *Repository) GetTeamByCompanyName(companyName string) ([]*domain.Affiliation, error) {
	query := `
		SELECT id, employee_email, hr_email, company_logo, status, affiliation_date
		FROM affiliations WHERE company_name = $1 ORDER BY affiliation_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	team := make([]*domain.Affiliation, 0)
	for rows.Next() {
		affiliation := &domain.Affiliation{
			CompanyName: companyName,
		}
		dst := []any{&affiliation.ID, &affiliation.EmployeeEmail, &affiliation.HREmail, &affiliation.CompanyLogo, &affiliation.Status, &affiliation.AffiliationDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		team = append(team, affiliation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return team, nil
}

func (r *Repository) GetAffiliationsByEmployee(employeeEmail string) ([]*domain.Affiliation, error) {
	query := `
		SELECT id, hr_email, company_name, company_logo, status, affiliation_date
		FROM affiliations WHERE employee_email = $1 ORDER BY affiliation_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	affiliations := make([]*domain.Affiliation, 0)
	for rows.Next() {
		affiliation := &domain.Affiliation{
			EmployeeEmail: employeeEmail,
		}
		dst := []any{&affiliation.ID, &affiliation.HREmail, &affiliation.CompanyName, &affiliation.CompanyLogo, &affiliation.Status, &affiliation.AffiliationDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		affiliations = append(affiliations, affiliation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return affiliations, nil
}
