package handler

type ContextKey string

var (
	EmailCtxKey ContextKey = "email"
	AccountCtx  ContextKey = "account"
	AssetCtx    ContextKey = "asset"
)
