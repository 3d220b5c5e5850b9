package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
)

func (h *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.repository.GetAllPackages()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取套餐列表成功", packages)
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackageID int64 `json:"packageId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pkg, err := h.repository.GetPackageByID(req.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "套餐不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)

	session, err := h.payments.CreateCheckoutSession(
		payment.LineItem{
			Name:      pkg.Name,
			UnitPrice: pkg.Price,
			Quantity:  1,
		},
		account.Email,
		payment.SessionMetadata{
			PackageID:     pkg.ID,
			EmployeeLimit: pkg.EmployeeLimit,
		},
	)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建结账会话成功", map[string]string{"url": session.URL})
}

func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	receipt, err := h.engine.ReconcilePayment(req.SessionID)
	if err != nil {
		h.workflowError(w, r, err)
		return
	}

	if receipt.Credited {
		account := r.Context().Value(AccountCtx).(*domain.Account)
		h.enqueueMail(r, domain.MailMessage{
			Type: "payment_receipt",
			To:   receipt.Payment.HREmail,
			Data: domain.PaymentReceiptMailData{
				CompanyName:   account.CompanyName,
				PackageName:   receipt.Payment.PackageName,
				Amount:        receipt.Payment.Amount,
				EmployeeLimit: receipt.Payment.EmployeeLimit,
				TransactionID: receipt.Payment.TransactionID,
			},
		})
	}

	h.successResponse(w, r, "支付处理成功", receipt)
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	payments, err := h.repository.GetPaymentsByHR(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取支付记录成功", payments)
}
