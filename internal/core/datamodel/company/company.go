package company

import "time"

type Company struct {
	ID          int64     `gorm:"primaryKey"`
	CompanyName string    `gorm:"column:company_name;not null"`
	Prefix      string    `gorm:"column:prefix;size:3"`
	VAT         string    `gorm:"column:vat;size:8"`
	BRN         string    `gorm:"column:brn;size:9"`
	Address     string    `gorm:"column:address"`
	Tel         string    `gorm:"column:tel;size:8"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}

type Shop struct {
	ID        int64     `gorm:"primaryKey"`
	CompanyID int64     `gorm:"column:company_id;not null"`
	Location  string    `gorm:"column:location;not null"`
	Address   string    `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Shop) TableName() string {
	return "shops"
}
