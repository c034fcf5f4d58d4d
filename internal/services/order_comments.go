package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
)

type OrderCommentServiceInterface interface {
	// AddComment общий путь для сотрудников. Неизвестный или пустой тип превращается в client.
	AddComment(ctx context.Context, orderID uint64, payload dto.CreateCommentDTO) (*entities.OrderComment, error)
	// AddTechComment путь техника: только technical и status_update, только по своей заявке.
	AddTechComment(ctx context.Context, orderID uint64, payload dto.CreateCommentDTO) (*entities.OrderComment, error)
}

type OrderCommentService struct {
	*BaseService
	orderRepo   repositories.OrderRepositoryInterface
	commentRepo repositories.OrderCommentRepositoryInterface
}

func NewOrderCommentService(
	orderRepo repositories.OrderRepositoryInterface,
	commentRepo repositories.OrderCommentRepositoryInterface,
	logger *zap.Logger,
) OrderCommentServiceInterface {
	return &OrderCommentService{
		BaseService: NewBaseService(nil, logger),
		orderRepo:   orderRepo,
		commentRepo: commentRepo,
	}
}

func (s *OrderCommentService) AddComment(ctx context.Context, orderID uint64, payload dto.CreateCommentDTO) (*entities.OrderComment, error) {
	return s.add(ctx, orderID, constants.ParseCommentTypeOrDefault(payload.CommentType), payload.Content)
}

func (s *OrderCommentService) AddTechComment(ctx context.Context, orderID uint64, payload dto.CreateCommentDTO) (*entities.OrderComment, error) {
	commentType := constants.CommentType(payload.CommentType)
	if commentType != constants.CommentTechnical && commentType != constants.CommentStatusUpdate {
		return nil, apperrors.NewValidationError("Недопустимый тип комментария")
	}
	return s.add(ctx, orderID, commentType, payload.Content)
}

func (s *OrderCommentService) add(ctx context.Context, orderID uint64, commentType constants.CommentType, content string) (*entities.OrderComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("Комментарий не может быть пустым")
	}

	session, err := s.CheckPermission(ctx, authz.CommentPermission(commentType))
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoError(err, orderNotFoundMessage)
	}
	if !session.CanAccessOrder(&order.Order) {
		return nil, apperrors.NewForbiddenError("Нет прав на комментирование этой заявки")
	}

	comment := &entities.OrderComment{
		OrderID:     orderID,
		UserID:      session.AccountID,
		CommentType: commentType,
		Content:     content,
	}
	if err := s.commentRepo.CreateInTx(ctx, nil, comment); err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	author := session.Username
	comment.AuthorUsername = &author

	s.logger.Info("Добавлен комментарий",
		zap.Uint64("orderID", orderID),
		zap.String("type", string(commentType)),
		zap.Uint64("authorID", session.AccountID),
	)
	return comment, nil
}
