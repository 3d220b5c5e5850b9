package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
)

const testJWTSecret = "test-secret"

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Database.QueryTimeout = 5

	repo := repository.NewRepository(cfg, db)
	h, err := NewHandler(cfg, repo, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, mock
}

func signToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(h *Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func accountRow(role domain.Role, packageLimit int32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "role", "profile_image", "date_of_birth", "company_name", "company_logo", "package_limit", "current_employees", "created_at", "version"}).
		AddRow(int64(1), "李四", role, "", "1990-01-01", "演示公司", "", packageLimit, int32(0), time.Now(), int32(1))
}

func TestAuth(t *testing.T) {
	t.Run("缺少令牌", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/user/role", nil)
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "用户未登录", resp.Message)
	})

	t.Run("令牌不是 Bearer 格式", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/user/role", nil)
		req.Header.Set("Authorization", "Token abc")
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("令牌签名不匹配", func(t *testing.T) {
		h, _ := newTestHandler(t)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "hr@demo.test"})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/user/role", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("令牌缺少邮箱", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/user/role", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, ""))
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("有效令牌", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("SELECT role FROM accounts").
			WithArgs("hr@demo.test").
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(domain.RoleHR))

		req := httptest.NewRequest(http.MethodGet, "/user/role", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})
}

func TestRequiredRole(t *testing.T) {
	t.Run("账号不存在时是权限不足而不是服务器错误", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("ghost@demo.test").
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/assets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "ghost@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "权限不足", resp.Message)
	})

	t.Run("查询失败时是服务器错误而不是权限不足", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnError(errors.New("connection reset"))

		req := httptest.NewRequest(http.MethodGet, "/assets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("员工访问 HR 接口", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("employee@demo.test").
			WillReturnRows(accountRow(domain.RoleEmployee, 0))

		req := httptest.NewRequest(http.MethodGet, "/assets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "employee@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "权限不足", resp.Message)
	})

	t.Run("HR 正常访问", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))
		mock.ExpectQuery("FROM assets WHERE hr_email").
			WithArgs("hr@demo.test").
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "product_type", "product_image", "available_quantity", "created_at", "version"}))

		req := httptest.NewRequest(http.MethodGet, "/assets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})
}

func TestAssetInfo(t *testing.T) {
	t.Run("资产 ID 非法", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))

		req := httptest.NewRequest(http.MethodDelete, "/assets/abc", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("资产不存在", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))
		mock.ExpectQuery("FROM assets WHERE id").
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodDelete, "/assets/7", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("禁止操作其他公司的资产", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))
		mock.ExpectQuery("FROM assets WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"hr_email", "product_name", "product_type", "product_image", "available_quantity", "created_at", "version"}).
				AddRow("other-hr@demo.test", "显示器", "returnable", "", int32(3), time.Now(), int32(1)))

		req := httptest.NewRequest(http.MethodDelete, "/assets/7", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "禁止操作其他公司的资产", resp.Message)
	})
}
