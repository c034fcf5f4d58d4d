package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/events"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/eventbus"
	"fixtrack/pkg/filestorage"
	"fixtrack/pkg/utils"
)

const (
	maxTicketAttempts     = 5
	orderNotFoundMessage  = "Заявка не найдена"
	orderClosedMessage    = "Заявка уже закрыта"
	defaultCloseNote      = "Заявка закрыта"
	commentClosedTemplate = "Заявка закрыта: %s"
)

var errTicketCollision = errors.New("сгенерированный номер заявки уже занят")

type OrderServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateOrderDTO) (*dto.CreateOrderResponseDTO, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.OrderWithNames, uint64, error)
	// ListForTech onlyMine ограничивает выборку заявками текущего техника; администратор видит все.
	ListForTech(ctx context.Context, onlyMine bool, filter entities.OrderFilter) ([]dto.TechOrderDTO, uint64, error)
	Detail(ctx context.Context, id uint64) (*dto.OrderDetailDTO, error)
	UpdateFields(ctx context.Context, id uint64, patch dto.UpdateOrderDTO) (*entities.Order, error)
	AssignTechnician(ctx context.Context, id uint64, technicianID uint64) (*entities.Order, error)
	SelfAssign(ctx context.Context, id uint64) (*entities.Order, error)
	Reassign(ctx context.Context, id uint64) (*entities.Order, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateStatusDTO) (*entities.Order, error)
	Close(ctx context.Context, id uint64, payload dto.CloseOrderDTO) (*entities.Order, error)
}

type OrderService struct {
	*BaseService
	txManager      repositories.TxManagerInterface
	orderRepo      repositories.OrderRepositoryInterface
	updateRepo     repositories.OrderUpdateRepositoryInterface
	commentRepo    repositories.OrderCommentRepositoryInterface
	attachmentRepo repositories.AttachmentRepositoryInterface
	clientRepo     repositories.ClientRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	fileStorage    filestorage.FileStorageInterface
	bus            *eventbus.Bus

	generateCodes func() (ticketCode, securityKey string, err error)
	now           func() time.Time
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	updateRepo repositories.OrderUpdateRepositoryInterface,
	commentRepo repositories.OrderCommentRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	clientRepo repositories.ClientRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		BaseService:    NewBaseService(nil, logger),
		txManager:      txManager,
		orderRepo:      orderRepo,
		updateRepo:     updateRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
		fileStorage:    fileStorage,
		bus:            bus,
		generateCodes:  generateOrderCodes,
		now:            time.Now,
	}
}

func generateOrderCodes() (string, string, error) {
	ticket, err := utils.GenerateTicketCode()
	if err != nil {
		return "", "", err
	}
	key, err := utils.GenerateSecurityKey()
	if err != nil {
		return "", "", err
	}
	return ticket, key, nil
}

// cleanAccessories обрезает пробелы, выкидывает пустые значения и повторы.
func cleanAccessories(items []string) []string {
	trimmed := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			trimmed = append(trimmed, item)
		}
	}
	return utils.MergeUnique(nil, trimmed)
}

func (s *OrderService) Create(ctx context.Context, payload dto.CreateOrderDTO) (*dto.CreateOrderResponseDTO, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersCreate)
	if err != nil {
		return nil, err
	}

	clientName := strings.TrimSpace(payload.ClientName)
	description := strings.TrimSpace(payload.ProblemDescription)
	serviceType := constants.ServiceType(payload.ServiceType)
	if clientName == "" || description == "" {
		return nil, apperrors.NewValidationError("Информация о заявке неполная: укажите имя клиента и описание проблемы")
	}
	if !serviceType.IsValid() {
		return nil, apperrors.NewValidationError("Недопустимый тип услуги")
	}

	order := &entities.Order{
		ClientName:         clientName,
		ClientPhone:        utils.NilIfBlank(payload.ClientPhone),
		ClientEmail:        utils.NilIfBlank(payload.ClientEmail),
		ServiceType:        serviceType,
		ProblemDescription: description,
		Status:             constants.StatusPending,
		Accessories:        cleanAccessories(payload.Accessories),
		CreatedBy:          session.AccountID,
	}

	for attempt := 1; ; attempt++ {
		err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			return s.createInTx(ctx, tx, order, payload)
		})
		if !errors.Is(err, errTicketCollision) || attempt == maxTicketAttempts {
			break
		}
		s.logger.Warn("Коллизия номера заявки, повторная генерация", zap.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, errTicketCollision) {
			return nil, apperrors.NewInternalError(err, nil)
		}
		return nil, mapRepoError(err, orderNotFoundMessage)
	}

	s.logger.Info("Создана заявка",
		zap.Uint64("orderID", order.ID),
		zap.String("ticketCode", order.TicketCode),
		zap.Uint64("createdBy", session.AccountID),
	)
	s.publish(ctx, order, "", session.AccountID, events.ActionCreated)

	return &dto.CreateOrderResponseDTO{
		Order:       *order,
		TicketCode:  order.TicketCode,
		SecurityKey: order.SecurityKey,
	}, nil
}

func (s *OrderService) createInTx(ctx context.Context, tx pgx.Tx, order *entities.Order, payload dto.CreateOrderDTO) error {
	order.ClientID = nil
	switch {
	case payload.ClientID != nil:
		client, err := s.clientRepo.FindByIDInTx(ctx, tx, *payload.ClientID)
		if err != nil {
			return mapRepoError(err, "Выбранный клиент не найден")
		}
		order.ClientID = &client.ID
	case payload.CreateClient:
		client := &entities.Client{
			Name:  order.ClientName,
			Phone: order.ClientPhone,
			Email: order.ClientEmail,
		}
		if err := s.clientRepo.CreateInTx(ctx, tx, client); err != nil {
			return err
		}
		order.ClientID = &client.ID
	}

	ticket, key, err := s.generateCodes()
	if err != nil {
		return err
	}
	taken, err := s.orderRepo.CodesExistInTx(ctx, tx, ticket, key)
	if err != nil {
		return err
	}
	if taken {
		return errTicketCollision
	}
	order.TicketCode, order.SecurityKey = ticket, key

	if err := s.orderRepo.CreateInTx(ctx, tx, order); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return errTicketCollision
		}
		return err
	}
	return nil
}

func (s *OrderService) List(ctx context.Context, filter entities.OrderFilter) ([]entities.OrderWithNames, uint64, error) {
	if _, err := s.CheckPermission(ctx, authz.OrdersList); err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err, nil)
	}
	return orders, total, nil
}

func (s *OrderService) ListForTech(ctx context.Context, onlyMine bool, filter entities.OrderFilter) ([]dto.TechOrderDTO, uint64, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersTechView)
	if err != nil {
		return nil, 0, err
	}
	if onlyMine && !session.Can(authz.ScopeAll) {
		filter.TechnicianID = &session.AccountID
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err, nil)
	}
	result := make([]dto.TechOrderDTO, 0, len(orders))
	for _, o := range orders {
		result = append(result, dto.TechOrderDTO{
			OrderWithNames: o,
			IsAssignedToMe: o.IsAssignedTo(session.AccountID),
		})
	}
	return result, total, nil
}

// Detail карточка заявки. Техник видит только назначенные на него заявки.
func (s *OrderService) Detail(ctx context.Context, id uint64) (*dto.OrderDetailDTO, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersView)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, orderNotFoundMessage)
	}
	if !session.CanAccessOrder(&order.Order) {
		return nil, apperrors.NewForbiddenError("Нет доступа к этой заявке")
	}

	comments, err := s.commentRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	updates, err := s.updateRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	attachments, err := s.attachmentRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}

	files := make([]dto.AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		files = append(files, dto.AttachmentDTO{Attachment: a, URL: s.fileStorage.PublicURL(a.FilePath)})
	}
	return &dto.OrderDetailDTO{
		OrderWithNames: *order,
		Comments:       comments,
		Updates:        updates,
		Attachments:    files,
	}, nil
}

// UpdateFields меняет описательные поля заявки. Запись в журнал статусов не добавляется.
func (s *OrderService) UpdateFields(ctx context.Context, id uint64, patch dto.UpdateOrderDTO) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersUpdate)
	if err != nil {
		return nil, err
	}

	if patch.ServiceType.Valid && !constants.ServiceType(patch.ServiceType.String).IsValid() {
		return nil, apperrors.NewValidationError("Недопустимый тип услуги")
	}
	if patch.ProblemDescription.Valid && strings.TrimSpace(patch.ProblemDescription.String) == "" {
		return nil, apperrors.NewValidationError("Описание проблемы не может быть пустым")
	}
	if patch.ClientName.Valid && strings.TrimSpace(patch.ClientName.String) == "" {
		return nil, apperrors.NewValidationError("Имя клиента не может быть пустым")
	}

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		if patch.ServiceType.Valid {
			order.ServiceType = constants.ServiceType(patch.ServiceType.String)
		}
		if patch.ProblemDescription.Valid {
			order.ProblemDescription = strings.TrimSpace(patch.ProblemDescription.String)
		}
		if patch.ClientName.Valid {
			order.ClientName = strings.TrimSpace(patch.ClientName.String)
		}
		if patch.ClientPhone.Valid {
			order.ClientPhone = utils.NilIfBlank(patch.ClientPhone.String)
		}
		if patch.ClientEmail.Valid {
			order.ClientEmail = utils.NilIfBlank(patch.ClientEmail.String)
		}
		if patch.Accessories != nil {
			order.Accessories = utils.MergeUnique(order.Accessories, cleanAccessories(patch.Accessories))
		}

		if order.ClientID != nil && (patch.ClientName.Valid || patch.ClientPhone.Valid || patch.ClientEmail.Valid) {
			if err := s.syncClient(ctx, tx, *order.ClientID, order, patch); err != nil {
				return nil, err
			}
		}
		return &orderChange{action: events.ActionFields}, nil
	})
}

// syncClient переносит изменённые контактные данные в карточку связанного клиента.
func (s *OrderService) syncClient(ctx context.Context, tx pgx.Tx, clientID uint64, order *entities.Order, patch dto.UpdateOrderDTO) error {
	client, err := s.clientRepo.FindByIDInTx(ctx, tx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if patch.ClientName.Valid {
		client.Name = order.ClientName
	}
	if patch.ClientPhone.Valid {
		client.Phone = order.ClientPhone
	}
	if patch.ClientEmail.Valid {
		client.Email = order.ClientEmail
	}
	return s.clientRepo.UpdateInTx(ctx, tx, client)
}

func (s *OrderService) AssignTechnician(ctx context.Context, id uint64, technicianID uint64) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersAssign)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		tech, err := s.userRepo.FindByIDInTx(ctx, tx, technicianID)
		if err != nil {
			return nil, mapRepoError(err, "Техник не найден")
		}
		if !tech.IsActiveTechnician() {
			return nil, apperrors.NewValidationError("Пользователь не является активным техником")
		}
		if order.Status.IsClosed() {
			return nil, apperrors.NewConflictError("Нельзя назначить техника на закрытую заявку")
		}
		if order.IsAssignedTo(tech.ID) {
			return nil, nil
		}

		note := fmt.Sprintf("Назначен техник %s", tech.Username)
		if order.AssignedTechnicianID != nil {
			note = fmt.Sprintf("Техник переназначен с ID %d на %s", *order.AssignedTechnicianID, tech.Username)
		}
		order.AssignedTechnicianID = &tech.ID
		return &orderChange{
			action: events.ActionAssigned,
			update: s.auditRecord(order, order.Status, session.AccountID, note),
		}, nil
	})
}

// SelfAssign техник берёт свободную заявку; ожидающая заявка переходит на диагностику.
func (s *OrderService) SelfAssign(ctx context.Context, id uint64) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersSelfAssign)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		if order.AssignedTechnicianID != nil {
			return nil, apperrors.NewConflictError("Заявка уже назначена на техника")
		}
		if order.Status.IsClosed() {
			return nil, apperrors.NewConflictError("Нельзя взять в работу закрытую заявку")
		}

		oldStatus := order.Status
		order.AssignedTechnicianID = &session.AccountID
		if order.Status == constants.StatusPending {
			order.Status = constants.StatusInReview
		}
		return &orderChange{
			action: events.ActionSelfAssign,
			update: s.auditRecord(order, oldStatus, session.AccountID, fmt.Sprintf("Техник %s взял заявку в работу", session.Username)),
		}, nil
	})
}

// Reassign техник забирает заявку себе у другого техника.
func (s *OrderService) Reassign(ctx context.Context, id uint64) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersReassign)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		if order.IsAssignedTo(session.AccountID) {
			return nil, apperrors.NewConflictError("Заявка уже назначена на вас")
		}
		if order.Status.IsClosed() {
			return nil, apperrors.NewConflictError("Нельзя переназначить закрытую заявку")
		}

		note := fmt.Sprintf("Заявка взята техником %s", session.Username)
		if order.AssignedTechnicianID != nil {
			note = fmt.Sprintf("Заявка передана от техника ID %d технику %s", *order.AssignedTechnicianID, session.Username)
		}
		order.AssignedTechnicianID = &session.AccountID
		return &orderChange{
			action: events.ActionReassigned,
			update: s.auditRecord(order, order.Status, session.AccountID, note),
		}, nil
	})
}

// UpdateStatus меняет статус. Разрешено администратору и технику, назначенному на заявку.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateStatusDTO) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersStatusUpdate)
	if err != nil {
		return nil, err
	}
	newStatus, ok := constants.ParseOrderStatus(payload.Status)
	if !ok {
		return nil, apperrors.NewValidationError("Недопустимый статус")
	}

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		if !session.CanAccessOrder(order) {
			return nil, apperrors.NewForbiddenError("Нет прав на изменение статуса этой заявки")
		}
		if order.Status == newStatus {
			return nil, apperrors.NewConflictError("Заявка уже находится в этом статусе")
		}
		if order.Status.IsClosed() {
			return nil, apperrors.NewConflictError(orderClosedMessage)
		}

		oldStatus := order.Status
		order.Status = newStatus
		if newStatus.IsClosed() {
			closedAt := s.now()
			order.ClosedAt = &closedAt
		}
		update := s.auditRecord(order, oldStatus, session.AccountID, "")
		update.ChangeNote = utils.NilIfBlank(payload.Notes)
		return &orderChange{action: events.ActionStatus, update: update}, nil
	})
}

// Close переводит заявку в completed независимо от назначения. Заметка дублируется комментарием.
func (s *OrderService) Close(ctx context.Context, id uint64, payload dto.CloseOrderDTO) (*entities.Order, error) {
	session, err := s.CheckPermission(ctx, authz.OrdersClose)
	if err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(payload.ClosingNotes)

	return s.mutate(ctx, id, session, func(tx pgx.Tx, order *entities.Order) (*orderChange, error) {
		if order.Status.IsClosed() {
			return nil, apperrors.NewConflictError(orderClosedMessage)
		}

		oldStatus := order.Status
		closedAt := s.now()
		order.Status = constants.StatusCompleted
		order.ClosedAt = &closedAt

		note := defaultCloseNote
		if notes != "" {
			note = notes
			comment := &entities.OrderComment{
				OrderID:     order.ID,
				UserID:      session.AccountID,
				CommentType: constants.CommentStatusUpdate,
				Content:     fmt.Sprintf(commentClosedTemplate, notes),
			}
			if err := s.commentRepo.CreateInTx(ctx, tx, comment); err != nil {
				return nil, err
			}
		}
		return &orderChange{
			action: events.ActionClosed,
			update: s.auditRecord(order, oldStatus, session.AccountID, note),
		}, nil
	})
}

// orderChange результат изменения заявки внутри транзакции.
type orderChange struct {
	action string
	update *entities.OrderUpdate
}

func (s *OrderService) auditRecord(order *entities.Order, oldStatus constants.OrderStatus, actorID uint64, note string) *entities.OrderUpdate {
	return &entities.OrderUpdate{
		OrderID:    order.ID,
		OldStatus:  oldStatus,
		NewStatus:  order.Status,
		ChangedBy:  actorID,
		ChangeNote: utils.NilIfBlank(note),
	}
}

// mutate блокирует строку заявки, применяет fn и в той же транзакции сохраняет заявку и запись журнала.
// Если fn вернул nil без ошибки, заявка не меняется.
func (s *OrderService) mutate(
	ctx context.Context,
	id uint64,
	session *authz.Session,
	fn func(tx pgx.Tx, order *entities.Order) (*orderChange, error),
) (*entities.Order, error) {
	var (
		result    *entities.Order
		change    *orderChange
		oldStatus constants.OrderStatus
	)

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdateInTx(ctx, tx, id)
		if err != nil {
			return mapRepoError(err, orderNotFoundMessage)
		}
		oldStatus = order.Status

		change, err = fn(tx, order)
		if err != nil {
			return err
		}
		result = order
		if change == nil {
			return nil
		}

		if err := s.orderRepo.UpdateInTx(ctx, tx, order); err != nil {
			return mapRepoError(err, orderNotFoundMessage)
		}
		if change.update != nil {
			if err := s.updateRepo.CreateInTx(ctx, tx, change.update); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var httpErr *apperrors.HttpError
		if !errors.As(err, &httpErr) {
			s.logger.Error("Ошибка изменения заявки", zap.Uint64("orderID", id), zap.Error(err))
		}
		return nil, mapRepoError(err, orderNotFoundMessage)
	}

	if change != nil {
		s.logger.Info("Заявка изменена",
			zap.Uint64("orderID", id),
			zap.String("action", change.action),
			zap.String("oldStatus", oldStatus.String()),
			zap.String("newStatus", result.Status.String()),
			zap.Uint64("actorID", session.AccountID),
		)
		s.publish(ctx, result, oldStatus, session.AccountID, change.action)
	}
	return result, nil
}

func (s *OrderService) publish(ctx context.Context, order *entities.Order, oldStatus constants.OrderStatus, actorID uint64, action string) {
	s.bus.Publish(ctx, events.OrderChangedEvent{
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: order.Status,
		ActorID:   actorID,
		Action:    action,
	})
}
