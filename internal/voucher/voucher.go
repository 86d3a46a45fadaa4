package voucher

import (
	"time"

	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/shopspring/decimal"
)

const (
	StatusProvisional = "provisional"
	StatusIssued      = "issued"
	StatusCancelled   = "cancelled"
	StatusRedeemed    = "redeemed"
	StatusExpired     = "expired"
)

type Voucher struct {
	ID               int64           `json:"id"`
	VoucherRequestID int64           `json:"voucher_request_id"`
	VoucherRef       string          `json:"voucher_ref"`
	Amount           decimal.Decimal `json:"amount"`
	VoucherStatus    string          `json:"voucher_status"`
	DateTimeCreated  time.Time       `json:"date_time_created"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	ExtensionDate    *time.Time      `json:"extension_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (v *Voucher) CanBeRedeemed() bool {
	return v.VoucherStatus == StatusIssued
}

// EffectiveExpiry prefers the extension date when one was granted.
func (v *Voucher) EffectiveExpiry() *time.Time {
	if v.ExtensionDate != nil {
		return v.ExtensionDate
	}
	return v.ExpiryDate
}

func (v *Voucher) IsExpired(now time.Time) bool {
	expiry := v.EffectiveExpiry()
	if expiry == nil {
		return false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.After(*expiry)
}

type Redemption struct {
	ID             int64     `json:"id"`
	VoucherID      int64     `json:"voucher_id"`
	UserID         int64     `json:"user_id"`
	ShopID         int64     `json:"shop_id"`
	RedemptionDate time.Time `json:"redemption_date"`
	TillNo         *int      `json:"till_no,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToDataModel(v *Voucher) *voucherDatamodel.Voucher {
	return &voucherDatamodel.Voucher{
		ID:               v.ID,
		VoucherRequestID: v.VoucherRequestID,
		VoucherRef:       v.VoucherRef,
		Amount:           v.Amount,
		VoucherStatus:    v.VoucherStatus,
		DateTimeCreated:  v.DateTimeCreated,
		ExpiryDate:       v.ExpiryDate,
		ExtensionDate:    v.ExtensionDate,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func FromDataModel(v *voucherDatamodel.Voucher) *Voucher {
	return &Voucher{
		ID:               v.ID,
		VoucherRequestID: v.VoucherRequestID,
		VoucherRef:       v.VoucherRef,
		Amount:           v.Amount,
		VoucherStatus:    v.VoucherStatus,
		DateTimeCreated:  v.DateTimeCreated,
		ExpiryDate:       v.ExpiryDate,
		ExtensionDate:    v.ExtensionDate,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*voucherDatamodel.Voucher) []*Voucher {
	result := make([]*Voucher, len(rows))
	for i, v := range rows {
		result[i] = FromDataModel(v)
	}
	return result
}

func RedemptionFromDataModel(r *voucherDatamodel.Redemption) *Redemption {
	return &Redemption{
		ID:             r.ID,
		VoucherID:      r.VoucherID,
		UserID:         r.UserID,
		ShopID:         r.ShopID,
		RedemptionDate: r.RedemptionDate,
		TillNo:         r.TillNo,
		CreatedAt:      r.CreatedAt,
	}
}
