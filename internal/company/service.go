package company

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	companyDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/company"
)

type RepositoryAPI interface {
	GetAll() ([]*companyDatamodel.Company, error)
	GetByID(id int64) (*companyDatamodel.Company, error)
	Create(company *companyDatamodel.Company) error
	Update(company *companyDatamodel.Company) error
	Delete(id int64) error
	GetShopByID(id int64) (*companyDatamodel.Shop, error)
	GetShopsByCompany(companyID int64) ([]*companyDatamodel.Shop, error)
	GetAllShops() ([]*companyDatamodel.Shop, error)
	CreateShop(shop *companyDatamodel.Shop) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCompanies() ([]*Company, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get companies", "error", err)
		return nil, internal.NewInternalError("failed to get companies", err)
	}

	companies := make([]*Company, len(rows))
	for i, row := range rows {
		companies[i] = FromDataModel(row)
	}
	return companies, nil
}

func (s *Service) GetCompanyByID(id int64) (*Company, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get company", "error", err, "company_id", id)
		return nil, internal.ErrCompanyNotFound
	}
	return FromDataModel(row), nil
}

// GetPrefix resolves the reference prefix for a company. The request service
// uses it when building reference codes.
func (s *Service) GetPrefix(companyID int64) (string, error) {
	row, err := s.repo.GetByID(companyID)
	if err != nil {
		return "", internal.ErrCompanyNotFound
	}
	return row.Prefix, nil
}

func (s *Service) CreateCompany(dto CreateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("company validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	row := &companyDatamodel.Company{
		CompanyName: dto.CompanyName,
		Prefix:      dto.Prefix,
		VAT:         dto.VAT,
		BRN:         dto.BRN,
		Address:     dto.Address,
		Tel:         dto.Tel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create company", "error", err, "company_name", dto.CompanyName)
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", row.ID, "prefix", row.Prefix)
	return FromDataModel(row), nil
}

func (s *Service) UpdateCompany(id int64, dto UpdateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("company update validation failed", "error", err, "company_id", id)
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCompanyNotFound
	}

	if dto.CompanyName != nil {
		row.CompanyName = *dto.CompanyName
	}
	if dto.VAT != nil {
		row.VAT = *dto.VAT
	}
	if dto.BRN != nil {
		row.BRN = *dto.BRN
	}
	if dto.Address != nil {
		row.Address = *dto.Address
	}
	if dto.Tel != nil {
		row.Tel = *dto.Tel
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to update company", err)
	}

	s.logger.Info("company updated", "company_id", id)
	return FromDataModel(row), nil
}

func (s *Service) DeleteCompany(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrCompanyNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete company", "error", err, "company_id", id)
		return internal.NewInternalError("failed to delete company", err)
	}

	s.logger.Info("company deleted", "company_id", id)
	return nil
}

func (s *Service) GetAllShops() ([]*Shop, error) {
	rows, err := s.repo.GetAllShops()
	if err != nil {
		s.logger.Error("failed to get shops", "error", err)
		return nil, internal.NewInternalError("failed to get shops", err)
	}

	shops := make([]*Shop, len(rows))
	for i, row := range rows {
		shops[i] = ShopFromDataModel(row)
	}
	return shops, nil
}

func (s *Service) GetShopsByCompany(companyID int64) ([]*Shop, error) {
	rows, err := s.repo.GetShopsByCompany(companyID)
	if err != nil {
		s.logger.Error("failed to get shops", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to get shops", err)
	}

	shops := make([]*Shop, len(rows))
	for i, row := range rows {
		shops[i] = ShopFromDataModel(row)
	}
	return shops, nil
}

// GetShopLocation renders the "<company name> <location>" string stamped on
// redemption receipts.
func (s *Service) GetShopLocation(shopID int64) (string, error) {
	shop, err := s.repo.GetShopByID(shopID)
	if err != nil {
		return "", internal.ErrShopNotFound
	}

	comp, err := s.repo.GetByID(shop.CompanyID)
	if err != nil {
		return "", internal.ErrCompanyNotFound
	}

	return comp.CompanyName + " " + shop.Location, nil
}

func (s *Service) CreateShop(dto CreateShopDTO) (*Shop, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("shop validation failed", "error", err)
		return nil, err
	}

	if _, err := s.repo.GetByID(dto.CompanyID); err != nil {
		return nil, internal.ErrCompanyNotFound
	}

	now := time.Now()
	row := &companyDatamodel.Shop{
		CompanyID: dto.CompanyID,
		Location:  dto.Location,
		Address:   dto.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateShop(row); err != nil {
		s.logger.Error("failed to create shop", "error", err, "company_id", dto.CompanyID)
		return nil, internal.NewInternalError("failed to create shop", err)
	}

	s.logger.Info("shop created", "shop_id", row.ID, "company_id", row.CompanyID)
	return ShopFromDataModel(row), nil
}
