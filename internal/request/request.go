package request

import (
	"fmt"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ValidityTypeWeek  = "week"
	ValidityTypeMonth = "month"

	MinValidityPeriod = 1
	MaxValidityPeriod = 12
)

type VoucherRequest struct {
	ID                 int64            `json:"id"`
	RequestRef         string           `json:"request_ref"`
	CompanyID          int64            `json:"company_id"`
	ClientID           *int64           `json:"client_id,omitempty"`
	QuantityOfVouchers int              `json:"quantity_of_vouchers"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	RequestStatus      string           `json:"request_status"`
	ValidityPeriod     int              `json:"validity_period"`
	ValidityType       string           `json:"validity_type"`
	PaymentRemarks     *string          `json:"payment_remarks,omitempty"`
	DateTimeRecorded   time.Time        `json:"date_time_recorded"`
	DateTimePaid       *time.Time       `json:"date_time_paid,omitempty"`
	DateTimeApproved   *time.Time       `json:"date_time_approved,omitempty"`
	RecordedBy         *int64           `json:"recorded_by,omitempty"`
	ApprovedBy         *int64           `json:"approved_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (r *VoucherRequest) IsTerminal() bool {
	return r.RequestStatus == StatusApproved || r.RequestStatus == StatusRejected
}

func (r *VoucherRequest) CanBePaid() bool {
	return r.RequestStatus == StatusPending
}

func (r *VoucherRequest) CanBeApproved() bool {
	return r.RequestStatus == StatusPaid
}

func (r *VoucherRequest) CanBeRejected() bool {
	return r.RequestStatus == StatusPending || r.RequestStatus == StatusPaid
}

// TransitionEffect describes the cascade a legal status change carries beyond
// the request row itself. It is computed by ApplyTransition without touching
// persistence; the repository commits request and cascade in one transaction.
type TransitionEffect struct {
	// NotifyApprovers is set exactly for the pending->paid transition.
	NotifyApprovers bool
	// IssueVouchers flips provisional child vouchers to issued with ExpiryDate.
	IssueVouchers bool
	// CancelVouchers flips provisional child vouchers to cancelled.
	CancelVouchers bool
	ExpiryDate     *time.Time
}

func (e TransitionEffect) IsNoop() bool {
	return !e.NotifyApprovers && !e.IssueVouchers && !e.CancelVouchers
}

// ApplyTransition validates newStatus against the transition table and
// mutates req accordingly, returning the cascade to persist alongside it.
//
//	pending -> paid | rejected (or pending, a no-op)
//	paid    -> approved | rejected (or paid, a no-op)
//	approved/rejected are terminal
//
// Approval from pending is refused: a request must have passed through paid.
func ApplyTransition(req *VoucherRequest, newStatus string, actorID int64, now time.Time) (TransitionEffect, error) {
	var effect TransitionEffect

	switch newStatus {
	case StatusPending, StatusPaid, StatusApproved, StatusRejected:
	default:
		return effect, internal.NewValidationError(
			fmt.Sprintf("unknown request status %q", newStatus),
			internal.ErrCodeInvalidTransition,
		)
	}

	if newStatus == req.RequestStatus {
		return effect, nil
	}

	if req.IsTerminal() {
		return effect, internal.NewValidationError(
			fmt.Sprintf("this voucher request is already %s and cannot be modified", req.RequestStatus),
			internal.ErrCodeRequestImmutable,
		)
	}

	switch req.RequestStatus {
	case StatusPending:
		switch newStatus {
		case StatusPaid:
			req.RequestStatus = StatusPaid
			req.DateTimePaid = &now
			effect.NotifyApprovers = true
		case StatusRejected:
			req.RequestStatus = StatusRejected
			effect.CancelVouchers = true
		case StatusApproved:
			return effect, internal.NewValidationError(
				"the request must be in 'paid' status before it can be approved",
				internal.ErrCodeApprovalRequiresPay,
			)
		}

	case StatusPaid:
		switch newStatus {
		case StatusApproved:
			expiry, err := ExpiryFromValidity(now, req.ValidityPeriod, req.ValidityType)
			if err != nil {
				return effect, err
			}
			req.RequestStatus = StatusApproved
			req.DateTimeApproved = &now
			req.ApprovedBy = &actorID
			effect.IssueVouchers = true
			effect.ExpiryDate = &expiry
		case StatusRejected:
			req.RequestStatus = StatusRejected
			effect.CancelVouchers = true
		case StatusPending:
			return effect, internal.NewValidationError(
				"a paid request cannot move back to pending",
				internal.ErrCodeInvalidTransition,
			)
		}

	default:
		return effect, internal.NewValidationError(
			fmt.Sprintf("request in status %q cannot change to %q", req.RequestStatus, newStatus),
			internal.ErrCodeInvalidTransition,
		)
	}

	req.UpdatedAt = now
	return effect, nil
}

// ExpiryFromValidity computes a voucher expiry date from the approved
// validity: period weeks, or period*30 days for months.
func ExpiryFromValidity(now time.Time, period int, validityType string) (time.Time, error) {
	if period < MinValidityPeriod || period > MaxValidityPeriod {
		return time.Time{}, internal.NewValidationError(
			fmt.Sprintf("validity period must be between %d and %d", MinValidityPeriod, MaxValidityPeriod),
			internal.ErrCodeInvalidValidity,
		)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch validityType {
	case ValidityTypeWeek:
		return day.AddDate(0, 0, period*7), nil
	case ValidityTypeMonth:
		return day.AddDate(0, 0, period*30), nil
	default:
		return time.Time{}, internal.NewValidationError(
			fmt.Sprintf("validity type must be %q or %q, got %q", ValidityTypeWeek, ValidityTypeMonth, validityType),
			internal.ErrCodeInvalidValidity,
		)
	}
}

func ToDataModel(r *VoucherRequest) *requestDatamodel.VoucherRequest {
	return &requestDatamodel.VoucherRequest{
		ID:                 r.ID,
		RequestRef:         r.RequestRef,
		CompanyID:          r.CompanyID,
		ClientID:           r.ClientID,
		QuantityOfVouchers: r.QuantityOfVouchers,
		Amount:             r.Amount,
		RequestStatus:      r.RequestStatus,
		ValidityPeriod:     r.ValidityPeriod,
		ValidityType:       r.ValidityType,
		PaymentRemarks:     r.PaymentRemarks,
		DateTimeRecorded:   r.DateTimeRecorded,
		DateTimePaid:       r.DateTimePaid,
		DateTimeApproved:   r.DateTimeApproved,
		RecordedBy:         r.RecordedBy,
		ApprovedBy:         r.ApprovedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func FromDataModel(r *requestDatamodel.VoucherRequest) *VoucherRequest {
	return &VoucherRequest{
		ID:                 r.ID,
		RequestRef:         r.RequestRef,
		CompanyID:          r.CompanyID,
		ClientID:           r.ClientID,
		QuantityOfVouchers: r.QuantityOfVouchers,
		Amount:             r.Amount,
		RequestStatus:      r.RequestStatus,
		ValidityPeriod:     r.ValidityPeriod,
		ValidityType:       r.ValidityType,
		PaymentRemarks:     r.PaymentRemarks,
		DateTimeRecorded:   r.DateTimeRecorded,
		DateTimePaid:       r.DateTimePaid,
		DateTimeApproved:   r.DateTimeApproved,
		RecordedBy:         r.RecordedBy,
		ApprovedBy:         r.ApprovedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*requestDatamodel.VoucherRequest) []*VoucherRequest {
	result := make([]*VoucherRequest, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
