package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) CreateRequest(request *domain.Request) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO asset_requests (asset_id, asset_name, requester_email, requester_name, hr_email, request_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, request_date
	`

	args := []any{request.AssetID, request.AssetName, request.RequesterEmail, request.RequesterName, request.HREmail, request.RequestStatus}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.RequestDate); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRequestByID(id int64) (*domain.Request, error) {
	query := `
		SELECT asset_id, asset_name, requester_email, requester_name, hr_email, request_status, request_date, approval_date
		FROM asset_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.Request{
		ID: id,
	}

	dst := []any{&request.AssetID, &request.AssetName, &request.RequesterEmail, &request.RequesterName, &request.HREmail, &request.RequestStatus, &request.RequestDate, &request.ApprovalDate}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

// CheckRequestExists 检查同一个员工是否对同一个资产提交过申请，不论该申请处于什么状态
func (r *Repository) CheckRequestExists(assetID int64, requesterEmail string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM asset_requests WHERE asset_id = $1 AND requester_email = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, assetID, requesterEmail).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) GetRequestsByHR(hrEmail string) ([]*domain.Request, error) {
	query := `
		SELECT id, asset_id, asset_name, requester_email, requester_name, request_status, request_date, approval_date
		FROM asset_requests WHERE hr_email = $1 ORDER BY request_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hrEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		request := &domain.Request{
			HREmail: hrEmail,
		}
		dst := []any{&request.ID, &request.AssetID, &request.AssetName, &request.RequesterEmail, &request.RequesterName, &request.RequestStatus, &request.RequestDate, &request.ApprovalDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) GetRequestsByRequester(requesterEmail string) ([]*domain.Request, error) {
	query := `
		SELECT id, asset_id, asset_name, requester_name, hr_email, request_status, request_date, approval_date
		FROM asset_requests WHERE requester_email = $1 ORDER BY request_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, requesterEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		request := &domain.Request{
			RequesterEmail: requesterEmail,
		}
		dst := []any{&request.ID, &request.AssetID, &request.AssetName, &request.RequesterName, &request.HREmail, &request.RequestStatus, &request.RequestDate, &request.ApprovalDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) RejectRequest(request *domain.Request) error {
	query := `
		UPDATE asset_requests SET request_status = $1 WHERE id = $2 AND request_status = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, domain.RequestStatusRejected, request.ID, domain.RequestStatusPending)
	if err != nil {
		return err
	}

	// 并发情况下状态可能已经被其他请求改掉，这里沿用 sql.ErrNoRows 让调用方按冲突处理
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	request.RequestStatus = domain.RequestStatusRejected
	return nil
}
