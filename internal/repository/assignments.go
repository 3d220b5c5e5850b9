package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) GetAssignmentByID(id int64) (*domain.Assignment, error) {
	query := `
		SELECT asset_id, asset_name, asset_type, asset_image, employee_email, hr_email, status, assignment_date, return_date
		FROM asset_assignments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignment := &domain.Assignment{
		ID: id,
	}

	dst := []any{&assignment.AssetID, &assignment.AssetName, &assignment.AssetType, &assignment.AssetImage, &assignment.EmployeeEmail, &assignment.HREmail, &assignment.Status, &assignment.AssignmentDate, &assignment.ReturnDate}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return assignment, nil
}

// CheckActiveAssignmentExists 检查某个员工是否正持有某个资产
func (r *Repository) CheckActiveAssignmentExists(assetID int64, employeeEmail string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM asset_assignments WHERE asset_id = $1 AND employee_email = $2 AND status = $3)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, assetID, employeeEmail, domain.AssignmentStatusAssigned).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) GetAssignmentsByEmployee(employeeEmail string) ([]*domain.Assignment, error) {
	query := `
		SELECT id, asset_id, asset_name, asset_type, asset_image, hr_email, status, assignment_date, return_date
		FROM asset_assignments WHERE employee_email = $1 ORDER BY assignment_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{
			EmployeeEmail: employeeEmail,
		}
		dst := []any{&assignment.ID, &assignment.AssetID, &assignment.AssetName, &assignment.AssetType, &assignment.AssetImage, &assignment.HREmail, &assignment.Status, &assignment.AssignmentDate, &assignment.ReturnDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsByHR(hrEmail string) ([]*domain.Assignment, error) {
	query := `
		SELECT id, asset_id, asset_name, asset_type, asset_image, employee_email, status, assignment_date, return_date
		FROM asset_assignments WHERE hr_email = $1 ORDER BY assignment_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hrEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{
			HREmail: hrEmail,
		}
		dst := []any{&assignment.ID, &assignment.AssetID, &assignment.AssetName, &assignment.AssetType, &assignment.AssetImage, &assignment.EmployeeEmail, &assignment.Status, &assignment.AssignmentDate, &assignment.ReturnDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// ReturnAssignment 将一条处于 assigned 状态的分配记录标记为已归还
func (r *Repository) ReturnAssignment(assignment *domain.Assignment) error {
	query := `
		UPDATE asset_assignments
		SET status = $1, return_date = now()
		WHERE id = $2 AND status = $3
		RETURNING return_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var returnDate time.Time
	if err := r.dbpool.QueryRowContext(ctx, query, domain.AssignmentStatusReturned, assignment.ID, domain.AssignmentStatusAssigned).Scan(&returnDate); err != nil {
		return err
	}

	assignment.Status = domain.AssignmentStatusReturned
	assignment.ReturnDate = &returnDate
	return nil
}
