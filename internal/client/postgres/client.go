package postgres

import (
	"github.com/frahmantamala/voucher-management/internal"
	clientDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/client"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetAll() ([]*clientDatamodel.Client, error) {
	var clients []*clientDatamodel.Client
	err := r.db.Order("client_name ASC").Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) GetByID(id int64) (*clientDatamodel.Client, error) {
	var c clientDatamodel.Client
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(c *clientDatamodel.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) Update(c *clientDatamodel.Client) error {
	return r.db.Save(c).Error
}

func (r *ClientRepository) Delete(id int64) error {
	return r.db.Delete(&clientDatamodel.Client{}, id).Error
}
