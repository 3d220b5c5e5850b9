package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// 花名册查询没有额外的业务规则，查不到就返回空列表而不是错误

func (h *Handler) GetMyEmployees(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	roster, err := h.repository.GetRosterByHR(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", roster)
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	companyName := chi.URLParam(r, "companyName")

	team, err := h.repository.GetTeamByCompanyName(companyName)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取团队成员成功", team)
}

func (h *Handler) GetMyCompanies(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	affiliations, err := h.repository.GetAffiliationsByEmployee(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所属公司成功", affiliations)
}
