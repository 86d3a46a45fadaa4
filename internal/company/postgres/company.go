package postgres

import (
	"github.com/frahmantamala/voucher-management/internal"
	companyDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetAll() ([]*companyDatamodel.Company, error) {
	var companies []*companyDatamodel.Company
	err := r.db.Order("company_name ASC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) GetByID(id int64) (*companyDatamodel.Company, error) {
	var comp companyDatamodel.Company
	err := r.db.Where("id = ?", id).First(&comp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return &comp, nil
}

func (r *CompanyRepository) Create(comp *companyDatamodel.Company) error {
	return r.db.Create(comp).Error
}

func (r *CompanyRepository) Update(comp *companyDatamodel.Company) error {
	return r.db.Save(comp).Error
}

// Delete removes the company and its shops. Requests referencing the company
// keep their rows; the FK is not cascaded on purpose.
func (r *CompanyRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&companyDatamodel.Shop{}).Error; err != nil {
			return err
		}
		return tx.Delete(&companyDatamodel.Company{}, id).Error
	})
}

func (r *CompanyRepository) GetShopByID(id int64) (*companyDatamodel.Shop, error) {
	var shop companyDatamodel.Shop
	err := r.db.Where("id = ?", id).First(&shop).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (r *CompanyRepository) GetShopsByCompany(companyID int64) ([]*companyDatamodel.Shop, error) {
	var shops []*companyDatamodel.Shop
	err := r.db.Where("company_id = ?", companyID).Order("location ASC").Find(&shops).Error
	return shops, err
}

func (r *CompanyRepository) GetAllShops() ([]*companyDatamodel.Shop, error) {
	var shops []*companyDatamodel.Shop
	err := r.db.Order("company_id ASC, location ASC").Find(&shops).Error
	return shops, err
}

func (r *CompanyRepository) CreateShop(shop *companyDatamodel.Shop) error {
	return r.db.Create(shop).Error
}
