package workflow

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
)

type fakeGateway struct {
	session *payment.Session
	err     error
}

func (g *fakeGateway) RetrieveSession(sessionID string) (*payment.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func paidSession() *payment.Session {
	return &payment.Session{
		ID:              "cs_test_123",
		PaymentStatus:   payment.PaymentStatusPaid,
		CustomerEmail:   "hr@demo.test",
		AmountTotal:     1500,
		PaymentIntentID: "pi_test_456",
		Metadata: payment.SessionMetadata{
			PackageID:     3,
			EmployeeLimit: 20,
		},
	}
}

func TestReconcilePayment(t *testing.T) {
	t.Run("已支付的会话入账并增加名额", func(t *testing.T) {
		engine, mock := newTestEngine(t, &fakeGateway{session: paidSession()})

		mock.ExpectQuery("FROM payments WHERE transaction_id").
			WithArgs("pi_test_456").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("FROM packages WHERE id").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "price", "employee_limit"}).
				AddRow("旗舰套餐", int64(1500), int32(20)))

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WithArgs("hr@demo.test", "旗舰套餐", "pi_test_456", int64(1500), int32(20), payment.PaymentStatusPaid).
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_date"}).AddRow(int64(1), time.Now()))
		mock.ExpectExec("UPDATE accounts").
			WithArgs(int32(20), "hr@demo.test").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		receipt, err := engine.ReconcilePayment("cs_test_123")
		require.NoError(t, err)
		assert.True(t, receipt.Credited)
		assert.False(t, receipt.AlreadyRecorded)
		assert.Equal(t, int32(20), receipt.Payment.EmployeeLimit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("同一笔交易重放不会再次入账", func(t *testing.T) {
		engine, mock := newTestEngine(t, &fakeGateway{session: paidSession()})

		mock.ExpectQuery("FROM payments WHERE transaction_id").
			WithArgs("pi_test_456").
			WillReturnRows(sqlmock.NewRows([]string{"id", "hr_email", "package_name", "amount", "employee_limit", "payment_date", "status"}).
				AddRow(int64(1), "hr@demo.test", "旗舰套餐", int64(1500), int32(20), time.Now(), payment.PaymentStatusPaid))

		receipt, err := engine.ReconcilePayment("cs_test_123")
		require.NoError(t, err)
		assert.True(t, receipt.AlreadyRecorded)
		assert.False(t, receipt.Credited)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("未支付的会话不入账", func(t *testing.T) {
		session := paidSession()
		session.PaymentStatus = "unpaid"
		engine, mock := newTestEngine(t, &fakeGateway{session: session})

		mock.ExpectQuery("FROM payments WHERE transaction_id").
			WithArgs("pi_test_456").
			WillReturnError(sql.ErrNoRows)

		receipt, err := engine.ReconcilePayment("cs_test_123")
		require.NoError(t, err)
		assert.False(t, receipt.Credited)
		assert.Equal(t, "unpaid", receipt.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("会话不存在", func(t *testing.T) {
		engine, _ := newTestEngine(t, &fakeGateway{err: payment.ErrSessionNotFound})

		_, err := engine.ReconcilePayment("cs_missing")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("会话指向的套餐不存在", func(t *testing.T) {
		engine, mock := newTestEngine(t, &fakeGateway{session: paidSession()})

		mock.ExpectQuery("FROM payments WHERE transaction_id").
			WithArgs("pi_test_456").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("FROM packages WHERE id").
			WithArgs(int64(3)).
			WillReturnError(sql.ErrNoRows)

		_, err := engine.ReconcilePayment("cs_test_123")
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})
}
