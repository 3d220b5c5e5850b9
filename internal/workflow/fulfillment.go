package workflow

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
)

// Receipt 是支付对账的结果。AlreadyRecorded 表示这笔交易之前已经入账，
// 本次调用没有再次增加名额。
type Receipt struct {
	Payment         *domain.Payment `json:"payment"`
	PaymentStatus   string          `json:"paymentStatus"`
	Credited        bool            `json:"credited"`
	AlreadyRecorded bool            `json:"alreadyRecorded"`
}

// ReconcilePayment 根据结账会话为 HR 的套餐入账。
// 以服务商的交易号做幂等键，同一笔交易重放只会入账一次。
func (e *Engine) ReconcilePayment(sessionID string) (*Receipt, error) {
	session, err := e.gateway.RetrieveSession(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSessionNotFound):
			return nil, ErrSessionInvalid
		default:
			return nil, err
		}
	}

	existing, err := e.repo.GetPaymentByTransactionID(session.PaymentIntentID)
	if err == nil {
		return &Receipt{
			Payment:         existing,
			PaymentStatus:   session.PaymentStatus,
			AlreadyRecorded: true,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if session.PaymentStatus != payment.PaymentStatusPaid {
		return &Receipt{
			PaymentStatus: session.PaymentStatus,
		}, nil
	}

	pkg, err := e.repo.GetPackageByID(session.Metadata.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPackageNotFound
		default:
			return nil, err
		}
	}

	unlock, err := e.lockHR(session.CustomerEmail)
	if err != nil {
		return nil, err
	}
	defer unlock()

	record := &domain.Payment{
		HREmail:       session.CustomerEmail,
		PackageName:   pkg.Name,
		TransactionID: session.PaymentIntentID,
		Amount:        session.AmountTotal,
		EmployeeLimit: pkg.EmployeeLimit,
		Status:        session.PaymentStatus,
	}

	if err := e.repo.RecordPaymentTx(record); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "payments_transaction_id_key" {
			// 两个回调同时到达时只有一个能插入成功，失败的一方返回已有记录
			existing, err := e.repo.GetPaymentByTransactionID(session.PaymentIntentID)
			if err != nil {
				return nil, err
			}
			return &Receipt{
				Payment:         existing,
				PaymentStatus:   session.PaymentStatus,
				AlreadyRecorded: true,
			}, nil
		}
		return nil, err
	}

	return &Receipt{
		Payment:       record,
		PaymentStatus: session.PaymentStatus,
		Credited:      true,
	}, nil
}
