package client

import (
	"time"

	clientDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/client"
)

type Client struct {
	ID         int64     `json:"id"`
	IsCompany  bool      `json:"is_company"`
	ClientName string    `json:"client_name"`
	VAT        string    `json:"vat,omitempty"`
	BRN        string    `json:"brn,omitempty"`
	NIC        string    `json:"nic,omitempty"`
	Email      string    `json:"email,omitempty"`
	Contact    string    `json:"contact,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToDataModel(c *Client) *clientDatamodel.Client {
	return &clientDatamodel.Client{
		ID:         c.ID,
		IsCompany:  c.IsCompany,
		ClientName: c.ClientName,
		VAT:        c.VAT,
		BRN:        c.BRN,
		NIC:        c.NIC,
		Email:      c.Email,
		Contact:    c.Contact,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func FromDataModel(c *clientDatamodel.Client) *Client {
	return &Client{
		ID:         c.ID,
		IsCompany:  c.IsCompany,
		ClientName: c.ClientName,
		VAT:        c.VAT,
		BRN:        c.BRN,
		NIC:        c.NIC,
		Email:      c.Email,
		Contact:    c.Contact,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
