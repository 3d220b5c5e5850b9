package repository

import (
	"database/sql"
	"errors"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
)

// 条件更新没有命中任何行时返回的错误，调用方据此区分业务冲突和基础设施故障
var (
	ErrLimitExhausted = errors.New("员工名额已用完")
	ErrAssetExhausted = errors.New("资产库存不足")
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
