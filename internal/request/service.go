package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/core/events"
	"github.com/frahmantamala/voucher-management/internal/refs"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	"github.com/shopspring/decimal"
)

// Repository defines the data access methods for voucher requests. Writes
// that carry a cascade run in a single transaction.
type Repository interface {
	CreateWithVouchers(req *requestDatamodel.VoucherRequest, vouchers []*voucherDatamodel.Voucher) error
	GetByID(id int64) (*requestDatamodel.VoucherRequest, error)
	List(status string, limit, offset int) ([]*requestDatamodel.VoucherRequest, int64, error)
	SaveTransition(req *requestDatamodel.VoucherRequest, effect TransitionEffect) (vouchersAffected int64, err error)
}

// RefGenerator allocates unique reference codes for requests and vouchers.
type RefGenerator interface {
	NextRequestRef(companyPrefix string) (string, error)
	NextVoucherRef(companyPrefix string) (string, error)
}

// CompanyDirectory resolves the reference prefix of a company.
type CompanyDirectory interface {
	GetPrefix(companyID int64) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	refs      RefGenerator
	companies CompanyDirectory
	eventBus  EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, refGen RefGenerator, companies CompanyDirectory, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		refs:      refGen,
		companies: companies,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateRequest records a new voucher request in pending status together
// with its provisional vouchers. Reference codes are regenerated and the
// insert retried when a concurrent writer wins the same code.
func (s *Service) CreateRequest(userID int64, dto CreateRequestDTO) (*RequestResponseDTO, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("voucher request validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	prefix, err := s.companies.GetPrefix(dto.CompanyID)
	if err != nil {
		s.logger.Error("failed to resolve company prefix", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	voucherAmount := decimal.Zero
	if dto.Amount != nil {
		voucherAmount = *dto.Amount
	}

	var row *requestDatamodel.VoucherRequest
	for attempt := 1; attempt <= refs.MaxAttempts; attempt++ {
		requestRef, err := s.refs.NextRequestRef(prefix)
		if err != nil {
			s.logger.Error("failed to allocate request reference", "error", err, "company_id", dto.CompanyID)
			return nil, internal.NewInternalError("failed to allocate request reference", err)
		}

		now := time.Now()
		row = &requestDatamodel.VoucherRequest{
			RequestRef:         requestRef,
			CompanyID:          dto.CompanyID,
			ClientID:           dto.ClientID,
			QuantityOfVouchers: dto.QuantityOfVouchers,
			Amount:             dto.Amount,
			RequestStatus:      StatusPending,
			ValidityPeriod:     dto.ValidityPeriod,
			ValidityType:       dto.ValidityType,
			PaymentRemarks:     dto.PaymentRemarks,
			DateTimeRecorded:   now,
			RecordedBy:         &userID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		vouchers := make([]*voucherDatamodel.Voucher, dto.QuantityOfVouchers)
		for i := range vouchers {
			voucherRef, err := s.refs.NextVoucherRef(prefix)
			if err != nil {
				s.logger.Error("failed to allocate voucher reference", "error", err, "company_id", dto.CompanyID)
				return nil, internal.NewInternalError("failed to allocate voucher reference", err)
			}
			vouchers[i] = &voucherDatamodel.Voucher{
				VoucherRef:      voucherRef,
				Amount:          voucherAmount,
				VoucherStatus:   voucher.StatusProvisional,
				DateTimeCreated: now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		}

		err = s.repo.CreateWithVouchers(row, vouchers)
		if err == nil {
			break
		}
		if refs.IsUniqueViolation(err) {
			s.logger.Warn("reference collision on create, retrying",
				"attempt", attempt,
				"request_ref", requestRef,
				"company_id", dto.CompanyID)
			row = nil
			continue
		}
		s.logger.Error("failed to create voucher request", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create voucher request", err)
	}

	if row == nil {
		s.logger.Error("reference generation retries exhausted", "company_id", dto.CompanyID)
		return nil, internal.NewInternalError("could not allocate a unique reference", refs.ErrRetriesExhausted)
	}

	resp := &RequestResponseDTO{VoucherRequest: FromDataModel(row)}
	if ignored, ok := dto.IgnoredStatus(); ok {
		s.logger.Warn("submitted request status ignored, new requests start as pending",
			"request_id", row.ID,
			"submitted_status", ignored)
		resp.Warning = "new requests always start as pending; submitted status was ignored"
	}

	s.logger.Info("voucher request created",
		"request_id", row.ID,
		"request_ref", row.RequestRef,
		"company_id", row.CompanyID,
		"quantity", row.QuantityOfVouchers,
		"user_id", userID)

	return resp, nil
}

func (s *Service) GetRequestByID(id int64) (*VoucherRequest, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get voucher request", "error", err, "request_id", id)
		return nil, internal.ErrRequestNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListRequests(params RequestQueryParams) (*RequestListResponseDTO, error) {
	params.Normalize()

	rows, total, err := s.repo.List(params.Status, params.PerPage, params.Offset())
	if err != nil {
		s.logger.Error("failed to list voucher requests", "error", err, "status", params.Status)
		return nil, internal.NewInternalError("failed to list voucher requests", err)
	}

	return &RequestListResponseDTO{
		Requests: FromDataModelSlice(rows),
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
	}, nil
}

// UpdateStatus runs the transition state machine over the stored request and
// persists request and voucher cascade in one transaction.
func (s *Service) UpdateStatus(ctx context.Context, requestID, actorID int64, userPermissions []string, dto UpdateStatusDTO) (*StatusChangedDTO, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("status update validation failed", "error", err, "request_id", requestID)
		return nil, err
	}

	row, err := s.repo.GetByID(requestID)
	if err != nil {
		s.logger.Error("voucher request not found for status update", "error", err, "request_id", requestID)
		return nil, internal.ErrRequestNotFound
	}

	if dto.RequestStatus != row.RequestStatus {
		if required := capabilityForStatus(dto.RequestStatus); required != "" && !hasCapability(userPermissions, required) {
			s.logger.Warn("status update denied: missing capability",
				"request_id", requestID,
				"actor_id", actorID,
				"required", required)
			return nil, internal.ErrUnauthorizedAccess
		}
	}

	domain := FromDataModel(row)
	now := time.Now()
	effect, err := ApplyTransition(domain, dto.RequestStatus, actorID, now)
	if err != nil {
		s.logger.Warn("illegal status transition",
			"request_id", requestID,
			"current_status", row.RequestStatus,
			"target_status", dto.RequestStatus,
			"error", err)
		return nil, err
	}

	if dto.PaymentRemarks != nil {
		domain.PaymentRemarks = dto.PaymentRemarks
	}

	affected, err := s.repo.SaveTransition(ToDataModel(domain), effect)
	if err != nil {
		s.logger.Error("failed to persist status transition", "error", err, "request_id", requestID)
		return nil, internal.NewInternalError("failed to update request status", err)
	}

	if (effect.IssueVouchers || effect.CancelVouchers) && affected == 0 {
		s.logger.Warn("status cascade touched no vouchers",
			"request_id", requestID,
			"request_ref", domain.RequestRef,
			"target_status", dto.RequestStatus)
	}

	s.publishTransitionEvents(ctx, domain, effect, actorID, affected)

	s.logger.Info("voucher request status updated",
		"request_id", requestID,
		"request_ref", domain.RequestRef,
		"status", domain.RequestStatus,
		"vouchers_affected", affected,
		"actor_id", actorID)

	return &StatusChangedDTO{
		ID:               domain.ID,
		RequestRef:       domain.RequestRef,
		RequestStatus:    domain.RequestStatus,
		DateTimePaid:     domain.DateTimePaid,
		DateTimeApproved: domain.DateTimeApproved,
		VouchersAffected: affected,
	}, nil
}

func (s *Service) publishTransitionEvents(ctx context.Context, req *VoucherRequest, effect TransitionEffect, actorID, affected int64) {
	if s.eventBus == nil || effect.IsNoop() {
		return
	}

	var event events.Event
	switch {
	case effect.NotifyApprovers:
		event = events.NewRequestPaidEvent(req.ID, req.RequestRef, req.CompanyID)
	case effect.IssueVouchers:
		event = events.NewRequestApprovedEvent(req.ID, req.RequestRef, actorID, int(affected))
	case effect.CancelVouchers:
		event = events.NewRequestRejectedEvent(req.ID, req.RequestRef, int(affected))
	}

	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish transition event",
			"error", err,
			"request_id", req.ID,
			"event_type", event.EventType())
	}
}

func capabilityForStatus(newStatus string) string {
	switch newStatus {
	case StatusPaid:
		return "change_to_paid"
	case StatusApproved:
		return "approve_request"
	case StatusRejected:
		return "reject_request"
	default:
		return ""
	}
}

func hasCapability(userPermissions []string, required string) bool {
	for _, perm := range userPermissions {
		if perm == required || perm == "admin" {
			return true
		}
	}
	return false
}
