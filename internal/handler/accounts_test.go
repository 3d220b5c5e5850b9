package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func TestCreateAccount(t *testing.T) {
	t.Run("首次登录建档", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO accounts").
			WithArgs("hr@demo.test", "李四", domain.Role("hr"), "", "1990-01-01", "演示公司", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "package_limit", "current_employees", "created_at", "version"}).
				AddRow(int64(1), int32(0), int32(0), time.Now(), int32(1)))

		body := `{"name":"李四","role":"hr","dateOfBirth":"1990-01-01","companyName":"演示公司"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "账号创建成功", resp.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("重复登录返回已有账号", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))

		body := `{"name":"李四","role":"hr"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "账号已存在", resp.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("角色非法时返回校验错误", func(t *testing.T) {
		h, _ := newTestHandler(t)

		body := `{"name":"李四","role":"admin"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("缺少姓名时返回校验错误", func(t *testing.T) {
		h, _ := newTestHandler(t)

		body := `{"role":"hr"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, _ := doRequest(h, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateMyProfile(t *testing.T) {
	t.Run("只更新给出的字段", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))
		// 未给出的字段沿用已有值
		mock.ExpectQuery("UPDATE accounts").
			WithArgs("王五", "", "1990-01-01", "演示公司", "", int64(1), int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "version"}).AddRow(time.Now(), int32(2)))

		body := `{"name":"王五"}`
		req := httptest.NewRequest(http.MethodPatch, "/user", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("版本冲突时提示重试", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("hr@demo.test").
			WillReturnRows(accountRow(domain.RoleHR, 5))
		mock.ExpectQuery("UPDATE accounts").
			WillReturnError(sql.ErrNoRows)

		body := `{"name":"王五"}`
		req := httptest.NewRequest(http.MethodPatch, "/user", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "hr@demo.test"))
		rec, resp := doRequest(h, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "更新账号失败，请重试", resp.Message)
	})
}
