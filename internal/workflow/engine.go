package workflow

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/payment"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
)

// Gateway 是支付服务商中本引擎用到的部分
type Gateway interface {
	RetrieveSession(sessionID string) (*payment.Session, error)
}

// Engine 负责资产工作流：员工提交申请、HR 审批/驳回、HR 直接分配，
// 以及支付完成后的套餐入账。所有跨表写入都经由 repository 的事务方法完成。
type Engine struct {
	cfg     *config.Config
	repo    *repository.Repository
	gateway Gateway
	rdb     *redis.Client // 可以为 nil，单实例部署时只用进程内锁

	mu      sync.Mutex
	hrLocks map[string]*sync.Mutex
}

func NewEngine(cfg *config.Config, repo *repository.Repository, gateway Gateway, rdb *redis.Client) *Engine {
	return &Engine{
		cfg:     cfg,
		repo:    repo,
		gateway: gateway,
		rdb:     rdb,
		hrLocks: make(map[string]*sync.Mutex),
	}
}

// SubmitRequest 以员工身份提交资产申请。
// 同一个员工对同一个资产只允许存在一条申请，无论之前那条处于什么状态，
// 也就是说被驳回之后不能重新申请。
func (e *Engine) SubmitRequest(requester *domain.Account, assetID int64, hrEmail string) (*domain.Request, error) {
	isExists, err := e.repo.CheckRequestExists(assetID, requester.Email)
	if err != nil {
		return nil, err
	}
	if isExists {
		return nil, ErrDuplicateRequest
	}

	asset, err := e.repo.GetAssetByID(assetID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrAssetNotFound
		default:
			return nil, err
		}
	}

	request := &domain.Request{
		AssetID:        assetID,
		AssetName:      asset.ProductName,
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		HREmail:        hrEmail,
		RequestStatus:  domain.RequestStatusPending,
	}
	if err := e.repo.CreateRequest(request); err != nil {
		return nil, err
	}

	return request, nil
}

// ApproveRequest 批准一条申请。
// 注意这里不校验审批人是否就是申请所记录的 HR，
// 扣名额扣的是申请上记录的 HR，而不是当前调用者。
func (e *Engine) ApproveRequest(requestID int64) (*domain.Request, error) {
	request, err := e.repo.GetRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRequestNotFound
		default:
			return nil, err
		}
	}

	if request.RequestStatus == domain.RequestStatusApproved {
		return nil, ErrAlreadyApproved
	}

	unlock, err := e.lockHR(request.HREmail)
	if err != nil {
		return nil, err
	}
	defer unlock()

	asset, err := e.repo.GetAssetByID(request.AssetID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 申请提交之后资产可能已经被删除
			return nil, ErrAssetNotFound
		default:
			return nil, err
		}
	}

	isAssigned, err := e.repo.CheckActiveAssignmentExists(request.AssetID, request.RequesterEmail)
	if err != nil {
		return nil, err
	}
	if isAssigned {
		return nil, ErrAlreadyAssigned
	}

	hr, err := e.repo.GetAccountByEmail(request.HREmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrHRNotFound
		default:
			return nil, err
		}
	}
	if hr.PackageLimit == 0 {
		return nil, ErrLimitReached
	}

	assignment, affiliation, err := e.prepareAssignment(hr, request.RequesterEmail, asset)
	if err != nil {
		return nil, err
	}

	if err := e.repo.ApproveRequestTx(request, assignment, affiliation); err != nil {
		switch {
		case errors.Is(err, repository.ErrLimitExhausted):
			return nil, ErrLimitReached
		case errors.Is(err, repository.ErrAssetExhausted):
			return nil, ErrOutOfStock
		default:
			return nil, err
		}
	}

	return request, nil
}

// RejectRequest 驳回一条处于 pending 状态的申请，没有任何库存或从属关系副作用
func (e *Engine) RejectRequest(requestID int64) (*domain.Request, error) {
	request, err := e.repo.GetRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRequestNotFound
		default:
			return nil, err
		}
	}

	if request.RequestStatus != domain.RequestStatusPending {
		return nil, ErrNotPending
	}

	if err := e.repo.RejectRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotPending
		default:
			return nil, err
		}
	}

	return request, nil
}

// AssignDirectly 由 HR 直接把资产分配给员工，不经过申请。
// 所有校验都在任何写入之前完成，直接分配不扣减资产库存。
func (e *Engine) AssignDirectly(hrEmail string, employeeEmail string, assetID int64) (*domain.Assignment, error) {
	unlock, err := e.lockHR(hrEmail)
	if err != nil {
		return nil, err
	}
	defer unlock()

	isAssigned, err := e.repo.CheckActiveAssignmentExists(assetID, employeeEmail)
	if err != nil {
		return nil, err
	}
	if isAssigned {
		return nil, ErrAlreadyAssigned
	}

	hr, err := e.repo.GetAccountByEmail(hrEmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrHRNotFound
		default:
			return nil, err
		}
	}
	if hr.PackageLimit == 0 {
		return nil, ErrLimitReached
	}

	asset, err := e.repo.GetAssetByID(assetID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrAssetNotFound
		default:
			return nil, err
		}
	}

	assignment, affiliation, err := e.prepareAssignment(hr, employeeEmail, asset)
	if err != nil {
		return nil, err
	}

	if err := e.repo.AssignDirectlyTx(assignment, affiliation); err != nil {
		switch {
		case errors.Is(err, repository.ErrLimitExhausted):
			return nil, ErrLimitReached
		default:
			return nil, err
		}
	}

	return assignment, nil
}

// prepareAssignment 构造分配记录（资产字段取分配时刻的快照）以及
// 首次关联时要插入的从属关系，已经关联过的员工返回 nil affiliation。
func (e *Engine) prepareAssignment(hr *domain.Account, employeeEmail string, asset *domain.Asset) (*domain.Assignment, *domain.Affiliation, error) {
	isAffiliated, err := e.repo.CheckAffiliationExists(employeeEmail, hr.Email)
	if err != nil {
		return nil, nil, err
	}

	assignment := &domain.Assignment{
		AssetID:       asset.ID,
		AssetName:     asset.ProductName,
		AssetType:     asset.ProductType,
		AssetImage:    asset.ProductImage,
		EmployeeEmail: employeeEmail,
		HREmail:       hr.Email,
		Status:        domain.AssignmentStatusAssigned,
	}

	var affiliation *domain.Affiliation
	if !isAffiliated {
		affiliation = &domain.Affiliation{
			EmployeeEmail: employeeEmail,
			HREmail:       hr.Email,
			CompanyName:   hr.CompanyName,
			CompanyLogo:   hr.CompanyLogo,
			Status:        domain.AffiliationStatusActive,
		}
	}

	return assignment, affiliation, nil
}
