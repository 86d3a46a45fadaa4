package voucher

import (
	"time"

	"github.com/frahmantamala/voucher-management/internal"
)

type RedeemDTO struct {
	ShopID int64 `json:"shop_id"`
	TillNo *int  `json:"till_no,omitempty"`
}

func (d *RedeemDTO) Validate() error {
	if d.ShopID <= 0 {
		return internal.NewValidationFieldError("shop_id", "shop is required", internal.ErrCodeMissingShop)
	}
	if d.TillNo != nil && *d.TillNo <= 0 {
		return internal.NewValidationFieldError("till_no", "till number must be positive", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RedeemResponseDTO struct {
	VoucherID      int64     `json:"voucher_id"`
	VoucherRef     string    `json:"voucher_ref"`
	VoucherStatus  string    `json:"voucher_status"`
	RedemptionDate time.Time `json:"redemption_date"`
	RedeemedAt     string    `json:"redeemed_at"`
	TillNo         *int      `json:"till_no,omitempty"`
}

// VoucherDetailDTO is the single-voucher view; the redemption is present
// only for redeemed vouchers.
type VoucherDetailDTO struct {
	*Voucher
	Redemption *Redemption `json:"redemption,omitempty"`
}

type VoucherListResponseDTO struct {
	Vouchers []*Voucher `json:"vouchers"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PerPage  int        `json:"per_page"`
}

type VoucherQueryParams struct {
	Status    string `json:"status,omitempty"`
	RequestID int64  `json:"request_id,omitempty"`
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
}

func (q *VoucherQueryParams) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
}

func (q *VoucherQueryParams) Offset() int {
	return (q.Page - 1) * q.PerPage
}
