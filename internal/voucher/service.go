package voucher

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	"github.com/frahmantamala/voucher-management/internal/auth"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/core/events"
)

// Repository defines the data access methods for vouchers and redemptions.
type Repository interface {
	GetByID(id int64) (*voucherDatamodel.Voucher, error)
	List(status string, requestID int64, limit, offset int) ([]*voucherDatamodel.Voucher, int64, error)
	// Redeem flips the voucher to redeemed and inserts the redemption row in
	// one transaction. It fails with internal.ErrVoucherNotIssued when a
	// concurrent writer got there first, and with an already-redeemed
	// conflict when the redemption row exists.
	Redeem(redemption *voucherDatamodel.Redemption) error
	GetRedemptionByVoucherID(voucherID int64) (*voucherDatamodel.Redemption, error)
}

// ShopDirectory resolves the redeeming shop for the redemption receipt.
type ShopDirectory interface {
	GetShopLocation(shopID int64) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	shops    ShopDirectory
	checker  auth.PermissionChecker
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, shops ShopDirectory, checker auth.PermissionChecker, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		shops:    shops,
		checker:  checker,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) GetVoucherByID(id int64) (*Voucher, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get voucher", "error", err, "voucher_id", id)
		return nil, internal.ErrVoucherNotFound
	}
	return FromDataModel(row), nil
}

// GetVoucherDetail returns the voucher together with its redemption when one
// was recorded.
func (s *Service) GetVoucherDetail(id int64) (*VoucherDetailDTO, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get voucher", "error", err, "voucher_id", id)
		return nil, internal.ErrVoucherNotFound
	}

	detail := &VoucherDetailDTO{Voucher: FromDataModel(row)}
	if row.VoucherStatus == StatusRedeemed {
		redemption, err := s.repo.GetRedemptionByVoucherID(id)
		if err != nil {
			s.logger.Error("redeemed voucher has no redemption row", "error", err, "voucher_id", id)
			return nil, internal.NewInternalError("failed to load redemption", err)
		}
		detail.Redemption = RedemptionFromDataModel(redemption)
	}
	return detail, nil
}

func (s *Service) ListVouchers(params VoucherQueryParams) (*VoucherListResponseDTO, error) {
	params.Normalize()

	rows, total, err := s.repo.List(params.Status, params.RequestID, params.PerPage, params.Offset())
	if err != nil {
		s.logger.Error("failed to list vouchers", "error", err, "status", params.Status)
		return nil, internal.NewInternalError("failed to list vouchers", err)
	}

	return &VoucherListResponseDTO{
		Vouchers: FromDataModelSlice(rows),
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
	}, nil
}

// Redeem records a redemption exactly once. The voucher must be issued and
// unexpired; the uniqueness of the redemption row guards against a second
// redemption slipping through concurrently.
func (s *Service) Redeem(ctx context.Context, voucherID, userID int64, userPermissions []string, dto RedeemDTO) (*RedeemResponseDTO, error) {
	if !s.checker.CanRedeemVoucher(userPermissions) {
		s.logger.Warn("redeem denied: missing capability", "voucher_id", voucherID, "user_id", userID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("redeem validation failed", "error", err, "voucher_id", voucherID)
		return nil, err
	}

	row, err := s.repo.GetByID(voucherID)
	if err != nil {
		s.logger.Error("voucher not found for redemption", "error", err, "voucher_id", voucherID)
		return nil, internal.ErrVoucherNotFound
	}

	v := FromDataModel(row)
	now := time.Now()

	switch {
	case v.VoucherStatus == StatusRedeemed:
		return nil, internal.NewConflictError("voucher has already been redeemed", internal.ErrCodeAlreadyRedeemed)
	case !v.CanBeRedeemed():
		return nil, internal.NewValidationError(
			"voucher is currently "+v.VoucherStatus+" and only issued vouchers can be redeemed",
			internal.ErrCodeVoucherNotIssued)
	case v.IsExpired(now):
		return nil, internal.NewValidationError("voucher has expired", internal.ErrCodeVoucherNotIssued)
	}

	location, err := s.shops.GetShopLocation(dto.ShopID)
	if err != nil {
		s.logger.Error("shop not found for redemption", "error", err, "shop_id", dto.ShopID)
		return nil, internal.ErrShopNotFound
	}

	redemption := &voucherDatamodel.Redemption{
		VoucherID:      voucherID,
		UserID:         userID,
		ShopID:         dto.ShopID,
		RedemptionDate: now,
		TillNo:         dto.TillNo,
		CreatedAt:      now,
	}

	if err := s.repo.Redeem(redemption); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			s.logger.Warn("redemption refused", "voucher_id", voucherID, "code", appErr.Code)
			return nil, appErr
		}
		s.logger.Error("failed to record redemption", "error", err, "voucher_id", voucherID)
		return nil, internal.NewInternalError("failed to record redemption", err)
	}

	if s.eventBus != nil {
		event := events.NewVoucherRedeemedEvent(voucherID, v.VoucherRef, userID, dto.ShopID)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish redemption event", "error", err, "voucher_id", voucherID)
		}
	}

	s.logger.Info("voucher redeemed",
		"voucher_id", voucherID,
		"voucher_ref", v.VoucherRef,
		"user_id", userID,
		"shop_id", dto.ShopID,
		"location", location)

	return &RedeemResponseDTO{
		VoucherID:      voucherID,
		VoucherRef:     v.VoucherRef,
		VoucherStatus:  StatusRedeemed,
		RedemptionDate: now,
		RedeemedAt:     location,
		TillNo:         dto.TillNo,
	}, nil
}
