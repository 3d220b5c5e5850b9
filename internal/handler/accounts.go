package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// CreateAccount 在用户第一次登录时建档。已经建过档的用户重复调用直接返回已有账号。
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name" validate:"required"`
		Role         string `json:"role" validate:"required,oneof=hr employee"`
		ProfileImage string `json:"profileImage"`
		DateOfBirth  string `json:"dateOfBirth"`
		CompanyName  string `json:"companyName"`
		CompanyLogo  string `json:"companyLogo"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	email := r.Context().Value(EmailCtxKey).(string)

	existing, err := h.repository.GetAccountByEmail(email)
	if err == nil {
		h.successResponse(w, r, "账号已存在", existing)
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	account := &domain.Account{
		Email:        email,
		Name:         req.Name,
		Role:         domain.Role(req.Role),
		ProfileImage: req.ProfileImage,
		DateOfBirth:  req.DateOfBirth,
		CompanyName:  req.CompanyName,
		CompanyLogo:  req.CompanyLogo,
	}

	if err := h.repository.CreateAccount(account); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "accounts_email_key":
			h.errorResponse(w, r, http.StatusConflict, "账号已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.createdResponse(w, r, "账号创建成功", account)
}

func (h *Handler) GetMyRole(w http.ResponseWriter, r *http.Request) {
	email := r.Context().Value(EmailCtxKey).(string)

	role, err := h.repository.GetAccountRole(email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "账号不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取角色成功", map[string]domain.Role{"role": role})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	account, err := h.repository.GetAccountByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "账号不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取账号成功", account)
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name"`
		ProfileImage *string `json:"profileImage"`
		DateOfBirth  *string `json:"dateOfBirth"`
		CompanyName  *string `json:"companyName"`
		CompanyLogo  *string `json:"companyLogo"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account := r.Context().Value(AccountCtx).(*domain.Account)

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.ProfileImage != nil {
		account.ProfileImage = *req.ProfileImage
	}
	if req.DateOfBirth != nil {
		account.DateOfBirth = *req.DateOfBirth
	}
	if req.CompanyName != nil {
		account.CompanyName = *req.CompanyName
	}
	if req.CompanyLogo != nil {
		account.CompanyLogo = *req.CompanyLogo
	}

	if err := h.repository.UpdateAccount(account); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "更新账号失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新账号成功", account)
}
