package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (h *Handler) AssignDirectly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeEmail string `json:"employeeEmail" validate:"required,email"`
		AssetID       int64  `json:"assetId" validate:"required"`
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

	assignment, err := h.engine.AssignDirectly(account.Email, req.EmployeeEmail, req.AssetID)
	if err != nil {
		h.workflowError(w, r, err)
		return
	}

	h.createdResponse(w, r, "资产分配成功", assignment)
}

// GetAssignments 按调用者的角色解析路径中的邮箱：
// HR 看到的是自己公司名下的分配记录，员工看到的是分配给自己的
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var (
		assignments []*domain.Assignment
		err         error
	)
	switch account.Role {
	case domain.RoleHR:
		assignments, err = h.repository.GetAssignmentsByHR(email)
	default:
		assignments, err = h.repository.GetAssignmentsByEmployee(email)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分配记录成功", assignments)
}

// ReturnAssignment 把分配记录标记为已归还。
// 分配记录里的资产字段是快照，归还不会恢复资产库存。
func (h *Handler) ReturnAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentIDParam := chi.URLParam(r, "id")
	assignmentID, err := strconv.ParseInt(assignmentIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "分配记录ID无效")
		return
	}

	assignment, err := h.repository.GetAssignmentByID(assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "分配记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)
	if assignment.HREmail != account.Email {
		h.errorResponse(w, r, http.StatusForbidden, "禁止操作其他公司的分配记录")
		return
	}

	if err := h.repository.ReturnAssignment(assignment); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "资产已经归还")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "资产归还成功", assignment)
}
