package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (h *Handler) GetMyAssets(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	assets, err := h.repository.GetAssetsByHR(account.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取资产列表成功", assets)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName       string `json:"productName" validate:"required"`
		ProductType       string `json:"productType" validate:"required,oneof=returnable non-returnable"`
		ProductImage      string `json:"productImage"`
		AvailableQuantity *int32 `json:"availableQuantity" validate:"required,gte=0"`
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

	asset := &domain.Asset{
		HREmail:           account.Email,
		ProductName:       req.ProductName,
		ProductType:       req.ProductType,
		ProductImage:      req.ProductImage,
		AvailableQuantity: *req.AvailableQuantity,
	}

	if err := h.repository.CreateAsset(asset); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "资产创建成功", asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName       *string `json:"productName"`
		ProductType       *string `json:"productType" validate:"omitempty,oneof=returnable non-returnable"`
		ProductImage      *string `json:"productImage"`
		AvailableQuantity *int32  `json:"availableQuantity" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	asset := r.Context().Value(AssetCtx).(*domain.Asset)

	if req.ProductName != nil {
		asset.ProductName = *req.ProductName
	}
	if req.ProductType != nil {
		asset.ProductType = *req.ProductType
	}
	if req.ProductImage != nil {
		asset.ProductImage = *req.ProductImage
	}
	if req.AvailableQuantity != nil {
		asset.AvailableQuantity = *req.AvailableQuantity
	}

	if err := h.repository.UpdateAsset(asset); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "更新资产失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新资产成功", asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetCtx).(*domain.Asset)

	if err := h.repository.DeleteAsset(asset.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除资产成功", nil)
}
