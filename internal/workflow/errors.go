package workflow

import (
	"errors"
)

// 业务规则失败使用哨兵错误，handler 据此决定响应的状态码，
// 其余错误一律按基础设施故障处理。
var (
	ErrDuplicateRequest = errors.New("该员工已经申请过这个资产")
	ErrRequestNotFound  = errors.New("申请不存在")
	ErrAssetNotFound    = errors.New("资产不存在")
	ErrHRNotFound       = errors.New("HR 账号不存在")
	ErrAlreadyAssigned  = errors.New("该员工已经持有这个资产")
	ErrAlreadyApproved  = errors.New("申请已经被批准")
	ErrNotPending       = errors.New("申请已经被处理")
	ErrLimitReached     = errors.New("员工名额已用完，请购买套餐")
	ErrOutOfStock       = errors.New("资产库存不足")
	ErrSessionInvalid   = errors.New("支付会话无效")
	ErrPackageNotFound  = errors.New("套餐不存在")
)
