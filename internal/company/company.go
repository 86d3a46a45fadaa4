package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/company"
)

type Company struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"company_name"`
	Prefix      string    `json:"prefix"`
	VAT         string    `json:"vat,omitempty"`
	BRN         string    `json:"brn,omitempty"`
	Address     string    `json:"address,omitempty"`
	Tel         string    `json:"tel,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Shop struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Location  string    `json:"location"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Prefix:      c.Prefix,
		VAT:         c.VAT,
		BRN:         c.BRN,
		Address:     c.Address,
		Tel:         c.Tel,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Prefix:      c.Prefix,
		VAT:         c.VAT,
		BRN:         c.BRN,
		Address:     c.Address,
		Tel:         c.Tel,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ShopToDataModel(s *Shop) *companyDatamodel.Shop {
	return &companyDatamodel.Shop{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Location:  s.Location,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ShopFromDataModel(s *companyDatamodel.Shop) *Shop {
	return &Shop{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Location:  s.Location,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
