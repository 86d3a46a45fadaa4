package client

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	clientDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/client"
)

type RepositoryAPI interface {
	GetAll() ([]*clientDatamodel.Client, error)
	GetByID(id int64) (*clientDatamodel.Client, error)
	Create(client *clientDatamodel.Client) error
	Update(client *clientDatamodel.Client) error
	Delete(id int64) error
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

func (s *Service) GetAllClients() ([]*Client, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get clients", "error", err)
		return nil, internal.NewInternalError("failed to get clients", err)
	}

	clients := make([]*Client, len(rows))
	for i, row := range rows {
		clients[i] = FromDataModel(row)
	}
	return clients, nil
}

func (s *Service) GetClientByID(id int64) (*Client, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get client", "error", err, "client_id", id)
		return nil, internal.ErrClientNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateClient(dto CreateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("client validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	row := &clientDatamodel.Client{
		IsCompany:  dto.IsCompany,
		ClientName: dto.ClientName,
		VAT:        dto.VAT,
		BRN:        dto.BRN,
		NIC:        dto.NIC,
		Email:      dto.Email,
		Contact:    dto.Contact,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create client", "error", err, "client_name", dto.ClientName)
		return nil, internal.NewInternalError("failed to create client", err)
	}

	s.logger.Info("client created", "client_id", row.ID, "is_company", row.IsCompany)
	return FromDataModel(row), nil
}

func (s *Service) UpdateClient(id int64, dto UpdateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("client update validation failed", "error", err, "client_id", id)
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClientNotFound
	}

	if dto.ClientName != nil {
		row.ClientName = *dto.ClientName
	}
	if dto.VAT != nil {
		row.VAT = *dto.VAT
	}
	if dto.BRN != nil {
		row.BRN = *dto.BRN
	}
	if dto.NIC != nil {
		row.NIC = *dto.NIC
	}
	if dto.Email != nil {
		row.Email = *dto.Email
	}
	if dto.Contact != nil {
		row.Contact = *dto.Contact
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", id)
		return nil, internal.NewInternalError("failed to update client", err)
	}

	s.logger.Info("client updated", "client_id", id)
	return FromDataModel(row), nil
}

func (s *Service) DeleteClient(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrClientNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete client", "error", err, "client_id", id)
		return internal.NewInternalError("failed to delete client", err)
	}

	s.logger.Info("client deleted", "client_id", id)
	return nil
}
