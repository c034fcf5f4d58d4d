package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
)

const publicNotFoundMessage = "Заявка не найдена или неверный ключ"

// PublicServiceInterface доступ клиента по паре номер заявки + ключ. Сессия не требуется.
type PublicServiceInterface interface {
	Lookup(ctx context.Context, ticketCode, securityKey string) (*dto.PublicOrderDTO, error)
	Updates(ctx context.Context, ticketCode, securityKey string) ([]dto.PublicOrderUpdateDTO, error)
	Comments(ctx context.Context, ticketCode, securityKey string) ([]dto.PublicCommentDTO, error)
}

type PublicService struct {
	orderRepo   repositories.OrderRepositoryInterface
	updateRepo  repositories.OrderUpdateRepositoryInterface
	commentRepo repositories.OrderCommentRepositoryInterface
	logger      *zap.Logger
}

func NewPublicService(
	orderRepo repositories.OrderRepositoryInterface,
	updateRepo repositories.OrderUpdateRepositoryInterface,
	commentRepo repositories.OrderCommentRepositoryInterface,
	logger *zap.Logger,
) PublicServiceInterface {
	return &PublicService{
		orderRepo:   orderRepo,
		updateRepo:  updateRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

func (s *PublicService) resolve(ctx context.Context, ticketCode, securityKey string) (*entities.Order, error) {
	if ticketCode == "" || securityKey == "" {
		return nil, apperrors.NewNotFoundError(publicNotFoundMessage)
	}
	order, err := s.orderRepo.FindByTicketAndKey(ctx, ticketCode, securityKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Публичный запрос с неверной парой номер/ключ", zap.String("ticketCode", ticketCode))
			return nil, apperrors.NewNotFoundError(publicNotFoundMessage)
		}
		return nil, apperrors.NewInternalError(err, nil)
	}
	return order, nil
}

func (s *PublicService) Lookup(ctx context.Context, ticketCode, securityKey string) (*dto.PublicOrderDTO, error) {
	order, err := s.resolve(ctx, ticketCode, securityKey)
	if err != nil {
		return nil, err
	}
	return &dto.PublicOrderDTO{
		TicketCode:         order.TicketCode,
		ClientName:         order.ClientName,
		ServiceType:        string(order.ServiceType),
		ProblemDescription: order.ProblemDescription,
		Status:             order.Status.String(),
		Accessories:        order.Accessories,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
		ClosedAt:           order.ClosedAt,
	}, nil
}

func (s *PublicService) Updates(ctx context.Context, ticketCode, securityKey string) ([]dto.PublicOrderUpdateDTO, error) {
	order, err := s.resolve(ctx, ticketCode, securityKey)
	if err != nil {
		return nil, err
	}
	updates, err := s.updateRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	result := make([]dto.PublicOrderUpdateDTO, 0, len(updates))
	for _, u := range updates {
		result = append(result, dto.PublicOrderUpdateDTO{
			OldStatus:  u.OldStatus.String(),
			NewStatus:  u.NewStatus.String(),
			ChangeNote: u.ChangeNote,
			CreatedAt:  u.CreatedAt,
		})
	}
	return result, nil
}

// Comments клиенту видны только комментарии типа client.
func (s *PublicService) Comments(ctx context.Context, ticketCode, securityKey string) ([]dto.PublicCommentDTO, error) {
	order, err := s.resolve(ctx, ticketCode, securityKey)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByOrder(ctx, order.ID, constants.CommentClient)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	result := make([]dto.PublicCommentDTO, 0, len(comments))
	for _, c := range comments {
		result = append(result, dto.PublicCommentDTO{Content: c.Content, CreatedAt: c.CreatedAt})
	}
	return result, nil
}
