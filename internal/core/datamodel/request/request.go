package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type VoucherRequest struct {
	ID                 int64            `gorm:"primaryKey"`
	RequestRef         string           `gorm:"column:request_ref;uniqueIndex;not null"`
	CompanyID          int64            `gorm:"column:company_id;not null"`
	ClientID           *int64           `gorm:"column:client_id"`
	QuantityOfVouchers int              `gorm:"column:quantity_of_vouchers;not null;default:1"`
	Amount             *decimal.Decimal `gorm:"column:amount;type:numeric(10,2)"`
	RequestStatus      string           `gorm:"column:request_status;default:pending"`
	ValidityPeriod     int              `gorm:"column:validity_period;default:1"`
	ValidityType       string           `gorm:"column:validity_type;default:month"`
	PaymentRemarks     *string          `gorm:"column:payment_remarks"`
	DateTimeRecorded   time.Time        `gorm:"column:date_time_recorded;default:now()"`
	DateTimePaid       *time.Time       `gorm:"column:date_time_paid"`
	DateTimeApproved   *time.Time       `gorm:"column:date_time_approved"`
	RecordedBy         *int64           `gorm:"column:recorded_by"`
	ApprovedBy         *int64           `gorm:"column:approved_by"`
	CreatedAt          time.Time        `gorm:"column:created_at;default:now()"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;default:now()"`
}

func (VoucherRequest) TableName() string {
	return "voucher_requests"
}
