package client

import "time"

type Client struct {
	ID         int64     `gorm:"primaryKey"`
	IsCompany  bool      `gorm:"column:is_company;default:true"`
	ClientName string    `gorm:"column:client_name;not null"`
	VAT        string    `gorm:"column:vat;size:8"`
	BRN        string    `gorm:"column:brn;size:9"`
	NIC        string    `gorm:"column:nic;size:14"`
	Email      string    `gorm:"column:email;not null"`
	Contact    string    `gorm:"column:contact"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Client) TableName() string {
	return "clients"
}
