package request

import (
	"fmt"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	"github.com/shopspring/decimal"
)

type CreateRequestDTO struct {
	CompanyID          int64            `json:"company_id"`
	ClientID           *int64           `json:"client_id,omitempty"`
	QuantityOfVouchers int              `json:"quantity_of_vouchers"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	ValidityPeriod     int              `json:"validity_period"`
	ValidityType       string           `json:"validity_type,omitempty"`
	PaymentRemarks     *string          `json:"payment_remarks,omitempty"`

	// RequestStatus is accepted but never honoured: new requests always
	// start as pending. A non-pending value only produces a warning.
	RequestStatus string `json:"request_status,omitempty"`
}

func (d *CreateRequestDTO) Validate() error {
	if d.CompanyID <= 0 {
		return internal.NewValidationFieldError("company_id", "company is required", internal.ErrCodeMissingCompany)
	}
	if d.QuantityOfVouchers <= 0 {
		return internal.NewValidationFieldError("quantity_of_vouchers", "quantity of vouchers must be positive", internal.ErrCodeInvalidQuantity)
	}
	if d.Amount != nil && d.Amount.IsNegative() {
		return internal.NewValidationFieldError("amount", "amount cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if d.ValidityType == "" {
		d.ValidityType = ValidityTypeMonth
	}
	if d.ValidityType != ValidityTypeWeek && d.ValidityType != ValidityTypeMonth {
		return internal.NewValidationFieldError("validity_type",
			fmt.Sprintf("validity type must be %q or %q", ValidityTypeWeek, ValidityTypeMonth),
			internal.ErrCodeInvalidValidity)
	}
	if d.ValidityPeriod < MinValidityPeriod || d.ValidityPeriod > MaxValidityPeriod {
		return internal.NewValidationFieldError("validity_period",
			fmt.Sprintf("validity period must be between %d and %d", MinValidityPeriod, MaxValidityPeriod),
			internal.ErrCodeInvalidValidity)
	}
	return nil
}

// IgnoredStatus reports the submitted status when it differs from pending.
func (d *CreateRequestDTO) IgnoredStatus() (string, bool) {
	if d.RequestStatus != "" && d.RequestStatus != StatusPending {
		return d.RequestStatus, true
	}
	return "", false
}

type UpdateStatusDTO struct {
	RequestStatus  string  `json:"request_status"`
	PaymentRemarks *string `json:"payment_remarks,omitempty"`
}

func (d *UpdateStatusDTO) Validate() error {
	switch d.RequestStatus {
	case StatusPending, StatusPaid, StatusApproved, StatusRejected:
		return nil
	case "":
		return internal.NewValidationFieldError("request_status", "request status is required", internal.ErrCodeInvalidTransition)
	default:
		return internal.NewValidationFieldError("request_status",
			fmt.Sprintf("unknown request status %q", d.RequestStatus),
			internal.ErrCodeInvalidTransition)
	}
}

type RequestResponseDTO struct {
	*VoucherRequest
	Warning string `json:"warning,omitempty"`
}

type RequestListResponseDTO struct {
	Requests []*VoucherRequest `json:"requests"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
}

type RequestQueryParams struct {
	Status  string `json:"status,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

func (q *RequestQueryParams) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
}

func (q *RequestQueryParams) Offset() int {
	return (q.Page - 1) * q.PerPage
}

type StatusChangedDTO struct {
	ID               int64      `json:"id"`
	RequestRef       string     `json:"request_ref"`
	RequestStatus    string     `json:"request_status"`
	DateTimePaid     *time.Time `json:"date_time_paid,omitempty"`
	DateTimeApproved *time.Time `json:"date_time_approved,omitempty"`
	VouchersAffected int64      `json:"vouchers_affected"`
}
