package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/types"
	"fixtrack/pkg/utils"
)

const clientRecentOrdersLimit = 10

type ClientServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error)
	Create(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error)
	GetByID(ctx context.Context, id uint64) (*dto.ClientDetailDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateClientDTO) (*entities.Client, error)
	CheckDuplicate(ctx context.Context, phone, email string) (*dto.ClientDuplicateDTO, error)
}

type ClientService struct {
	*BaseService
	clientRepo repositories.ClientRepositoryInterface
	orderRepo  repositories.OrderRepositoryInterface
}

func NewClientService(
	clientRepo repositories.ClientRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) ClientServiceInterface {
	return &ClientService{
		BaseService: NewBaseService(nil, logger),
		clientRepo:  clientRepo,
		orderRepo:   orderRepo,
	}
}

func (s *ClientService) List(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	if _, err := s.CheckPermission(ctx, authz.ClientsView); err != nil {
		return nil, 0, err
	}
	clients, total, err := s.clientRepo.List(ctx, strings.TrimSpace(filter.Search), filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err, nil)
	}
	return clients, total, nil
}

func (s *ClientService) Create(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error) {
	if _, err := s.CheckPermission(ctx, authz.ClientsManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Имя клиента обязательно")
	}

	client := &entities.Client{
		Name:    name,
		Phone:   utils.NilIfBlank(payload.Phone),
		Email:   utils.NilIfBlank(payload.Email),
		Address: utils.NilIfBlank(payload.Address),
		Notes:   utils.NilIfBlank(payload.Notes),
	}
	if err := s.clientRepo.CreateInTx(ctx, nil, client); err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	s.logger.Info("Создан клиент", zap.Uint64("clientID", client.ID))
	return client, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uint64) (*dto.ClientDetailDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.ClientsView); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Клиент не найден")
	}
	orders, err := s.orderRepo.ListByClient(ctx, id, clientRecentOrdersLimit)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	return &dto.ClientDetailDTO{Client: *client, RecentOrders: orders}, nil
}

func (s *ClientService) Update(ctx context.Context, id uint64, payload dto.UpdateClientDTO) (*entities.Client, error) {
	if _, err := s.CheckPermission(ctx, authz.ClientsManage); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Клиент не найден")
	}

	if payload.Name.Valid {
		name := strings.TrimSpace(payload.Name.String)
		if name == "" {
			return nil, apperrors.NewValidationError("Имя клиента не может быть пустым")
		}
		client.Name = name
	}
	if payload.Phone.Valid {
		client.Phone = utils.NilIfBlank(payload.Phone.String)
	}
	if payload.Email.Valid {
		client.Email = utils.NilIfBlank(payload.Email.String)
	}
	if payload.Address.Valid {
		client.Address = utils.NilIfBlank(payload.Address.String)
	}
	if payload.Notes.Valid {
		client.Notes = utils.NilIfBlank(payload.Notes.String)
	}

	if err := s.clientRepo.UpdateInTx(ctx, nil, client); err != nil {
		return nil, mapRepoError(err, "Клиент не найден")
	}
	return client, nil
}

// CheckDuplicate ищет уже зарегистрированного клиента с тем же телефоном или email.
func (s *ClientService) CheckDuplicate(ctx context.Context, phone, email string) (*dto.ClientDuplicateDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.ClientsView); err != nil {
		return nil, err
	}
	phone, email = strings.TrimSpace(phone), strings.TrimSpace(email)
	if phone == "" && email == "" {
		return nil, apperrors.NewValidationError("Укажите телефон или email для проверки")
	}

	client, err := s.clientRepo.FindByPhoneOrEmail(ctx, phone, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.ClientDuplicateDTO{Exists: false}, nil
		}
		return nil, apperrors.NewInternalError(err, nil)
	}
	return &dto.ClientDuplicateDTO{Exists: true, Client: client}, nil
}
