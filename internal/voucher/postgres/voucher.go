package postgres

import (
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/refs"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	"gorm.io/gorm"
)

// VoucherRepository implements the voucher.Repository interface using GORM
type VoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) voucher.Repository {
	return &VoucherRepository{db: db}
}

// GetByID retrieves a voucher by its ID
func (r *VoucherRepository) GetByID(id int64) (*voucherDatamodel.Voucher, error) {
	var v voucherDatamodel.Voucher
	err := r.db.Where("id = ?", id).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List retrieves vouchers filtered by status and/or request, newest first
func (r *VoucherRepository) List(status string, requestID int64, limit, offset int) ([]*voucherDatamodel.Voucher, int64, error) {
	query := r.db.Model(&voucherDatamodel.Voucher{})
	if status != "" {
		query = query.Where("voucher_status = ?", status)
	}
	if requestID > 0 {
		query = query.Where("voucher_request_id = ?", requestID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*voucherDatamodel.Voucher
	err := query.
		Order("date_time_created DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *VoucherRepository) GetRedemptionByVoucherID(voucherID int64) (*voucherDatamodel.Redemption, error) {
	var redemption voucherDatamodel.Redemption
	err := r.db.Where("voucher_id = ?", voucherID).First(&redemption).Error
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// Redeem flips the voucher from issued to redeemed and inserts the
// redemption row in one transaction. The conditional update loses against a
// concurrent redeemer; the unique index on redemptions.voucher_id backstops
// the one-redemption-per-voucher rule.
func (r *VoucherRepository) Redeem(redemption *voucherDatamodel.Redemption) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&voucherDatamodel.Voucher{}).
			Where("id = ? AND voucher_status = ?", redemption.VoucherID, voucher.StatusIssued).
			Updates(map[string]interface{}{
				"voucher_status": voucher.StatusRedeemed,
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrVoucherNotIssued
		}

		if err := tx.Create(redemption).Error; err != nil {
			if refs.IsUniqueViolation(err) {
				return internal.NewConflictError("voucher has already been redeemed", internal.ErrCodeAlreadyRedeemed)
			}
			return err
		}
		return nil
	})
}
