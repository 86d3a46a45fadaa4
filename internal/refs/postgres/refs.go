package postgres

import (
	"time"

	refsDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/refs"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/refs"
	"gorm.io/gorm"
)

// RefRepository implements both the allocator and the legacy-code scanner on
// the same connection.
type RefRepository struct {
	db *gorm.DB
}

func NewRefRepository(db *gorm.DB) *RefRepository {
	return &RefRepository{db: db}
}

var _ refs.Allocator = (*RefRepository)(nil)
var _ refs.CodeScanner = (*RefRepository)(nil)

func (r *RefRepository) ScopeExists(scope string) (bool, error) {
	var count int64
	err := r.db.Model(&refsDatamodel.RefCounter{}).
		Where("scope = ?", scope).
		Count(&count).Error
	return count > 0, err
}

func (r *RefRepository) SeedScope(scope string, lastSeq int64) error {
	return r.db.Create(&refsDatamodel.RefCounter{
		Scope:     scope,
		LastSeq:   lastSeq,
		UpdatedAt: time.Now(),
	}).Error
}

// NextSequence increments the counter row atomically and returns the new
// value. The single-statement upsert is what makes concurrent allocation
// safe without row locks.
func (r *RefRepository) NextSequence(scope string) (int64, error) {
	var seq int64
	err := r.db.Raw(
		`INSERT INTO ref_counters (scope, last_seq, updated_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (scope)
		 DO UPDATE SET last_seq = ref_counters.last_seq + 1, updated_at = excluded.updated_at
		 RETURNING last_seq`,
		scope, time.Now(),
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *RefRepository) RequestRefsForYear(yearStart time.Time) ([]string, error) {
	var existing []string
	err := r.db.Model(&requestDatamodel.VoucherRequest{}).
		Where("date_time_recorded >= ?", yearStart).
		Pluck("request_ref", &existing).Error
	return existing, err
}

func (r *RefRepository) VoucherRefsWithPrefix(base string) ([]string, error) {
	var existing []string
	err := r.db.Model(&voucherDatamodel.Voucher{}).
		Where("voucher_ref LIKE ?", base+"%").
		Pluck("voucher_ref", &existing).Error
	return existing, err
}
