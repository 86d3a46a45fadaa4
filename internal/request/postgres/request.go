package postgres

import (
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/request"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	"gorm.io/gorm"
)

// RequestRepository implements the request.Repository interface using GORM
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new voucher request repository
func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

// CreateWithVouchers saves a request and its provisional vouchers in one
// transaction. A unique violation on any reference rolls back everything.
func (r *RequestRepository) CreateWithVouchers(req *requestDatamodel.VoucherRequest, vouchers []*voucherDatamodel.Voucher) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		for _, v := range vouchers {
			v.VoucherRequestID = req.ID
			if err := tx.Create(v).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a voucher request by its ID
func (r *RequestRepository) GetByID(id int64) (*requestDatamodel.VoucherRequest, error) {
	var req requestDatamodel.VoucherRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// List retrieves voucher requests, optionally filtered by status, newest first
func (r *RequestRepository) List(status string, limit, offset int) ([]*requestDatamodel.VoucherRequest, int64, error) {
	query := r.db.Model(&requestDatamodel.VoucherRequest{})
	if status != "" {
		query = query.Where("request_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*requestDatamodel.VoucherRequest
	err := query.
		Order("date_time_recorded DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// SaveTransition persists the request row and its voucher cascade in one
// transaction, returning how many vouchers the cascade touched.
func (r *RequestRepository) SaveTransition(req *requestDatamodel.VoucherRequest, effect request.TransitionEffect) (int64, error) {
	var affected int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		req.UpdatedAt = time.Now()
		if err := tx.Save(req).Error; err != nil {
			return err
		}

		switch {
		case effect.IssueVouchers:
			res := tx.Model(&voucherDatamodel.Voucher{}).
				Where("voucher_request_id = ? AND voucher_status = ?", req.ID, voucher.StatusProvisional).
				Updates(map[string]interface{}{
					"voucher_status": voucher.StatusIssued,
					"expiry_date":    effect.ExpiryDate,
					"updated_at":     time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			affected = res.RowsAffected

		case effect.CancelVouchers:
			res := tx.Model(&voucherDatamodel.Voucher{}).
				Where("voucher_request_id = ? AND voucher_status = ?", req.ID, voucher.StatusProvisional).
				Updates(map[string]interface{}{
					"voucher_status": voucher.StatusCancelled,
					"updated_at":     time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			affected = res.RowsAffected
		}

		return nil
	})

	return affected, err
}
