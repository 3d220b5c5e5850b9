package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/workflow"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	engine      *workflow.Engine
	payments    *payment.Client
	translator  ut.Translator
	mailChannel *amqp.Channel

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, engine *workflow.Engine, payments *payment.Client, mailCh *amqp.Channel) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		engine:      engine,
		payments:    payments,
		translator:  trans,
		mailChannel: mailCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 所有路由都要求携带身份提供方签发的令牌
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		// 账号相关
		r.Post("/users", h.CreateAccount)
		r.Get("/user/role", h.GetMyRole)
		r.Get("/users/{email}", h.GetAccount)
		r.With(h.requiredRole(domain.RoleHR, domain.RoleEmployee)).Patch("/user", h.UpdateMyProfile)

		// 资产库存，只有 HR 能管理
		r.Route("/assets", func(r chi.Router) {
			r.Use(h.requiredRole(domain.RoleHR))
			r.Get("/", h.GetMyAssets)
			r.Post("/", h.CreateAsset)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.assetInfo)
				r.Patch("/", h.UpdateAsset)
				r.Delete("/", h.DeleteAsset)
			})
		})

		// 资产申请工作流
		r.With(h.requiredRole(domain.RoleEmployee)).Post("/asset-requests", h.SubmitRequest)
		r.With(h.requiredRole(domain.RoleHR, domain.RoleEmployee)).Get("/asset-requests/{email}", h.GetRequests)
		r.With(h.requiredRole(domain.RoleHR)).Patch("/approve-employee-requests/{id}", h.ApproveRequest)
		r.With(h.requiredRole(domain.RoleHR)).Patch("/reject-employee-requests/{id}", h.RejectRequest)

		// 资产分配
		r.Route("/assigned-assets", func(r chi.Router) {
			r.With(h.requiredRole(domain.RoleHR)).Post("/", h.AssignDirectly)
			r.With(h.requiredRole(domain.RoleHR, domain.RoleEmployee)).Get("/{email}", h.GetAssignments)
			r.With(h.requiredRole(domain.RoleHR)).Patch("/{id}/return", h.ReturnAssignment)
		})

		// 花名册查询
		r.With(h.requiredRole(domain.RoleHR)).Get("/my-employees/{email}", h.GetMyEmployees)
		r.With(h.requiredRole(domain.RoleHR, domain.RoleEmployee)).Get("/my-team/{companyName}", h.GetMyTeam)
		r.With(h.requiredRole(domain.RoleEmployee)).Get("/my-companies/{email}", h.GetMyCompanies)

		// 套餐购买
		r.Group(func(r chi.Router) {
			r.Use(h.requiredRole(domain.RoleHR))
			r.Get("/packages", h.GetPackages)
			r.Post("/create-checkout-session", h.CreateCheckoutSession)
			r.Post("/payment-success", h.PaymentSuccess)
			r.Get("/payments/{email}", h.GetPayments)
		})
	})
}
