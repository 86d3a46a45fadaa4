package client

import (
	"strings"

	"github.com/frahmantamala/voucher-management/internal"
)

type CreateClientDTO struct {
	IsCompany  bool   `json:"is_company"`
	ClientName string `json:"client_name"`
	VAT        string `json:"vat,omitempty"`
	BRN        string `json:"brn,omitempty"`
	NIC        string `json:"nic,omitempty"`
	Email      string `json:"email,omitempty"`
	Contact    string `json:"contact,omitempty"`
}

func (d *CreateClientDTO) Validate() error {
	if strings.TrimSpace(d.ClientName) == "" {
		return internal.NewValidationFieldError("client_name", "client name is required", internal.ErrCodeValidationFailed)
	}
	// Companies identify by registration number, individuals by NIC.
	if d.IsCompany && d.BRN == "" {
		return internal.NewValidationFieldError("brn", "business registration number is required for company clients", internal.ErrCodeValidationFailed)
	}
	if !d.IsCompany && d.NIC == "" {
		return internal.NewValidationFieldError("nic", "NIC is required for individual clients", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateClientDTO carries a partial update; nil fields stay untouched.
// is_company is fixed at creation, so the identification rule cannot flip.
type UpdateClientDTO struct {
	ClientName *string `json:"client_name,omitempty"`
	VAT        *string `json:"vat,omitempty"`
	BRN        *string `json:"brn,omitempty"`
	NIC        *string `json:"nic,omitempty"`
	Email      *string `json:"email,omitempty"`
	Contact    *string `json:"contact,omitempty"`
}

func (d *UpdateClientDTO) Validate() error {
	if d.ClientName != nil && strings.TrimSpace(*d.ClientName) == "" {
		return internal.NewValidationFieldError("client_name", "client name cannot be blank", internal.ErrCodeValidationFailed)
	}
	return nil
}
