package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssetID int64  `json:"assetId" validate:"required"`
		HREmail string `json:"hrEmail" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)

	request, err := h.engine.SubmitRequest(account, req.AssetID, req.HREmail)
	if err != nil {
		h.workflowError(w, r, err)
		return
	}

	h.createdResponse(w, r, "申请提交成功", request)
}

// GetRequests 按调用者的角色解析路径中的邮箱：
// HR 看到的是发给自己的申请，员工看到的是自己提交的申请
func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var (
		requests []*domain.Request
		err      error
	)
	switch account.Role {
	case domain.RoleHR:
		requests, err = h.repository.GetRequestsByHR(email)
	default:
		requests, err = h.repository.GetRequestsByRequester(email)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请列表成功", requests)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestIDParam := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "申请ID无效")
		return
	}

	request, err := h.engine.ApproveRequest(requestID)
	if err != nil {
		h.workflowError(w, r, err)
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)
	h.enqueueMail(r, domain.MailMessage{
		Type: "request_decision",
		To:   request.RequesterEmail,
		Data: domain.RequestDecisionMailData{
			EmployeeName: request.RequesterName,
			AssetName:    request.AssetName,
			CompanyName:  account.CompanyName,
			Approved:     true,
		},
	})

	h.successResponse(w, r, "申请批准成功", request)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestIDParam := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "申请ID无效")
		return
	}

	request, err := h.engine.RejectRequest(requestID)
	if err != nil {
		h.workflowError(w, r, err)
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)
	h.enqueueMail(r, domain.MailMessage{
		Type: "request_decision",
		To:   request.RequesterEmail,
		Data: domain.RequestDecisionMailData{
			EmployeeName: request.RequesterName,
			AssetName:    request.AssetName,
			CompanyName:  account.CompanyName,
			Approved:     false,
		},
	})

	h.successResponse(w, r, "申请驳回成功", request)
}
