package refs

import "time"

// RefCounter holds the last allocated sequence for one reference scope
// (a year for request refs, a company prefix + year for voucher refs).
type RefCounter struct {
	ID        int64     `gorm:"primaryKey"`
	Scope     string    `gorm:"column:scope;uniqueIndex;not null"`
	LastSeq   int64     `gorm:"column:last_seq;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (RefCounter) TableName() string {
	return "ref_counters"
}
