package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/workflow"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) createdResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusCreated, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// workflowError 把工作流引擎的哨兵错误翻译成对应的状态码，
// 非哨兵错误一律按基础设施故障处理
func (h *Handler) workflowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, workflow.ErrRequestNotFound),
		errors.Is(err, workflow.ErrAssetNotFound),
		errors.Is(err, workflow.ErrHRNotFound),
		errors.Is(err, workflow.ErrSessionInvalid),
		errors.Is(err, workflow.ErrPackageNotFound):
		h.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrDuplicateRequest),
		errors.Is(err, workflow.ErrAlreadyAssigned),
		errors.Is(err, workflow.ErrAlreadyApproved),
		errors.Is(err, workflow.ErrNotPending),
		errors.Is(err, workflow.ErrLimitReached),
		errors.Is(err, workflow.ErrOutOfStock):
		h.errorResponse(w, r, http.StatusConflict, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}
