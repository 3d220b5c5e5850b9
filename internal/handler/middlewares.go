package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type AuthClaims struct {
	jwt.RegisteredClaims
}

// auth 验证身份提供方签发的令牌，并把令牌中的邮箱附在 context 中。
// 本服务不签发令牌，只做验证。
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 Authorization 头中获取 token
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.errorResponse(w, r, http.StatusUnauthorized, "用户未登录")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}

		// 验证 token
		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.Auth.JWTSecret), nil
		})
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}
		if claims.Subject == "" {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}

		// 令牌的 sub 就是身份提供方验证过的邮箱
		ctx := context.WithValue(r.Context(), EmailCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requiredRole 按邮箱查出账号并检查角色。
// 账号不存在或角色不符都是 403，查询本身失败才是 500，两者必须区分开。
func (h *Handler) requiredRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := r.Context().Value(EmailCtxKey).(string)

			account, err := h.repository.GetAccountByEmail(email)
			if err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					h.errorResponse(w, r, http.StatusForbidden, "权限不足")
				default:
					h.internalServerError(w, r, err)
				}
				return
			}

			if !slices.Contains(roles, account.Role) {
				h.errorResponse(w, r, http.StatusForbidden, "权限不足")
				return
			}

			ctx := context.WithValue(r.Context(), AccountCtx, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// assetInfo 加载路径中的资产并检查它属于当前 HR
func (h *Handler) assetInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assetIDParam := chi.URLParam(r, "id")
		assetID, err := strconv.ParseInt(assetIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "资产ID无效")
			return
		}

		asset, err := h.repository.GetAssetByID(assetID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "资产不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		account := r.Context().Value(AccountCtx).(*domain.Account)
		if asset.HREmail != account.Email {
			h.errorResponse(w, r, http.StatusForbidden, "禁止操作其他公司的资产")
			return
		}

		ctx := context.WithValue(r.Context(), AssetCtx, asset)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
