package company

import (
	"strings"

	"github.com/frahmantamala/voucher-management/internal"
)

type CreateCompanyDTO struct {
	CompanyName string `json:"company_name"`
	Prefix      string `json:"prefix"`
	VAT         string `json:"vat,omitempty"`
	BRN         string `json:"brn,omitempty"`
	Address     string `json:"address,omitempty"`
	Tel         string `json:"tel,omitempty"`
}

func (d *CreateCompanyDTO) Validate() error {
	if strings.TrimSpace(d.CompanyName) == "" {
		return internal.NewValidationFieldError("company_name", "company name is required", internal.ErrCodeValidationFailed)
	}
	d.Prefix = strings.ToUpper(strings.TrimSpace(d.Prefix))
	if len(d.Prefix) < 2 || len(d.Prefix) > 3 {
		return internal.NewValidationFieldError("prefix", "prefix must be 2 or 3 letters", internal.ErrCodeValidationFailed)
	}
	for _, c := range d.Prefix {
		if c < 'A' || c > 'Z' {
			return internal.NewValidationFieldError("prefix", "prefix must contain only letters", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// UpdateCompanyDTO carries a partial update; nil fields stay untouched. The
// prefix is deliberately absent: reference codes already minted with it would
// stop matching their company.
type UpdateCompanyDTO struct {
	CompanyName *string `json:"company_name,omitempty"`
	VAT         *string `json:"vat,omitempty"`
	BRN         *string `json:"brn,omitempty"`
	Address     *string `json:"address,omitempty"`
	Tel         *string `json:"tel,omitempty"`
}

func (d *UpdateCompanyDTO) Validate() error {
	if d.CompanyName != nil && strings.TrimSpace(*d.CompanyName) == "" {
		return internal.NewValidationFieldError("company_name", "company name cannot be blank", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateShopDTO struct {
	CompanyID int64  `json:"company_id"`
	Location  string `json:"location"`
	Address   string `json:"address,omitempty"`
}

func (d *CreateShopDTO) Validate() error {
	if d.CompanyID <= 0 {
		return internal.NewValidationFieldError("company_id", "company is required", internal.ErrCodeMissingCompany)
	}
	if strings.TrimSpace(d.Location) == "" {
		return internal.NewValidationFieldError("location", "location is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
