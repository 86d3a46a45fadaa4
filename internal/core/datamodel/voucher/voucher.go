package voucher

import (
	"time"

	"github.com/shopspring/decimal"
)

type Voucher struct {
	ID               int64           `gorm:"primaryKey"`
	VoucherRequestID int64           `gorm:"column:voucher_request_id;not null"`
	VoucherRef       string          `gorm:"column:voucher_ref;uniqueIndex;not null"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(10,2)"`
	VoucherStatus    string          `gorm:"column:voucher_status;default:provisional"`
	DateTimeCreated  time.Time       `gorm:"column:date_time_created;default:now()"`
	ExpiryDate       *time.Time      `gorm:"column:expiry_date;type:date"`
	ExtensionDate    *time.Time      `gorm:"column:extension_date;type:date"`
	CreatedAt        time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

type Redemption struct {
	ID             int64     `gorm:"primaryKey"`
	VoucherID      int64     `gorm:"column:voucher_id;uniqueIndex;not null"`
	UserID         int64     `gorm:"column:user_id;not null"`
	ShopID         int64     `gorm:"column:shop_id;not null"`
	RedemptionDate time.Time `gorm:"column:redemption_date;default:now()"`
	TillNo         *int      `gorm:"column:till_no"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
}

func (Redemption) TableName() string {
	return "redemptions"
}
