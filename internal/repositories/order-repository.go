package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	db "fixtrack/internal/infrastructure/bd"
	apperrors "fixtrack/pkg/errors"
)

const orderColumns = "o.id, o.ticket_code, o.security_key, o.client_id, o.client_name, o.client_phone, o.client_email, " +
	"o.service_type, o.problem_description, o.status, o.accessories, o.assigned_technician_id, o.created_by, " +
	"o.closed_at, o.created_at, o.updated_at"

const orderNameColumns = orderColumns + ", tech.username, creator.username"

const orderJoins = "orders o " +
	"LEFT JOIN users tech ON tech.id = o.assigned_technician_id " +
	"LEFT JOIN users creator ON creator.id = o.created_by"

type OrderRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error
	CodesExistInTx(ctx context.Context, tx pgx.Tx, ticketCode, securityKey string) (bool, error)
	FindByID(ctx context.Context, id uint64) (*entities.OrderWithNames, error)
	FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	FindByTicketAndKey(ctx context.Context, ticketCode, securityKey string) (*entities.Order, error)
	UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.OrderWithNames, uint64, error)
	ListByClient(ctx context.Context, clientID uint64, limit int) ([]entities.Order, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

// encodeAccessories список аксессуаров хранится в колонке JSONB.
func encodeAccessories(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func decodeAccessories(raw []byte) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("некорректный список аксессуаров: %w", err)
	}
	return list, nil
}

func orderScanTargets(o *entities.Order, accessories *[]byte) []any {
	return []any{
		&o.ID, &o.TicketCode, &o.SecurityKey, &o.ClientID, &o.ClientName, &o.ClientPhone, &o.ClientEmail,
		&o.ServiceType, &o.ProblemDescription, &o.Status, accessories, &o.AssignedTechnicianID, &o.CreatedBy,
		&o.ClosedAt, &o.CreatedAt, &o.UpdatedAt,
	}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	var accessories []byte
	if err := row.Scan(orderScanTargets(&o, &accessories)...); err != nil {
		return nil, mapNotFound(err)
	}
	list, err := decodeAccessories(accessories)
	if err != nil {
		return nil, err
	}
	o.Accessories = list
	return &o, nil
}

func scanOrderWithNames(row pgx.Row) (*entities.OrderWithNames, error) {
	var o entities.OrderWithNames
	var accessories []byte
	targets := append(orderScanTargets(&o.Order, &accessories), &o.TechnicianUsername, &o.CreatorUsername)
	if err := row.Scan(targets...); err != nil {
		return nil, mapNotFound(err)
	}
	list, err := decodeAccessories(accessories)
	if err != nil {
		return nil, err
	}
	o.Accessories = list
	return &o, nil
}

func (r *OrderRepository) CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	accessories, err := encodeAccessories(order.Accessories)
	if err != nil {
		return err
	}
	query := `INSERT INTO orders (ticket_code, security_key, client_id, client_name, client_phone, client_email,
			service_type, problem_description, status, accessories, assigned_technician_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = pick(r.storage, tx).QueryRow(ctx, query,
		order.TicketCode, order.SecurityKey, order.ClientID, order.ClientName, order.ClientPhone, order.ClientEmail,
		order.ServiceType, order.ProblemDescription, order.Status, accessories, order.AssignedTechnicianID, order.CreatedBy,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("ошибка записи в 'orders': %w", err)
	}
	return nil
}

// CodesExistInTx проверяет, занят ли уже номер заявки или ключ доступа.
func (r *OrderRepository) CodesExistInTx(ctx context.Context, tx pgx.Tx, ticketCode, securityKey string) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE ticket_code = $1 OR security_key = $2)`,
		ticketCode, securityKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки уникальности номера: %w", err)
	}
	return exists, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entities.OrderWithNames, error) {
	query, args, err := psql.Select(orderNameColumns).From(orderJoins).Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanOrderWithNames(r.storage.QueryRow(ctx, query, args...))
}

// FindByIDForUpdateInTx блокирует строку заявки до конца транзакции.
func (r *OrderRepository) FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders o WHERE o.id = $1 FOR UPDATE"
	return scanOrder(pick(r.storage, tx).QueryRow(ctx, query, id))
}

// FindByTicketAndKey точное совпадение обеих частей публичного идентификатора.
func (r *OrderRepository) FindByTicketAndKey(ctx context.Context, ticketCode, securityKey string) (*entities.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders o WHERE o.ticket_code = $1 AND o.security_key = $2"
	return scanOrder(r.storage.QueryRow(ctx, query, ticketCode, securityKey))
}

// UpdateInTx сохраняет все изменяемые поля заявки. Номер и ключ не меняются никогда.
func (r *OrderRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	accessories, err := encodeAccessories(order.Accessories)
	if err != nil {
		return err
	}
	query := `UPDATE orders SET
			client_id = $1, client_name = $2, client_phone = $3, client_email = $4,
			service_type = $5, problem_description = $6, status = $7, accessories = $8,
			assigned_technician_id = $9, closed_at = $10, updated_at = NOW()
		WHERE id = $11 RETURNING updated_at`
	err = pick(r.storage, tx).QueryRow(ctx, query,
		order.ClientID, order.ClientName, order.ClientPhone, order.ClientEmail,
		order.ServiceType, order.ProblemDescription, order.Status, accessories,
		order.AssignedTechnicianID, order.ClosedAt, order.ID,
	).Scan(&order.UpdatedAt)
	return mapNotFound(err)
}

func (r *OrderRepository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.OrderWithNames, uint64, error) {
	base := db.ApplyOrderFilter(psql.Select().From(orderJoins), filter)

	countQuery, countArgs, err := base.Columns("COUNT(o.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}
	if total == 0 {
		return []entities.OrderWithNames{}, 0, nil
	}

	builder := db.ApplyPagination(base.Columns(orderNameColumns).OrderBy("o.created_at DESC", "o.id DESC"), filter.Limit, filter.Offset)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки основного запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.OrderWithNames, 0)
	for rows.Next() {
		o, err := scanOrderWithNames(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *OrderRepository) ListByClient(ctx context.Context, clientID uint64, limit int) ([]entities.Order, error) {
	query, args, err := db.ApplyPagination(
		psql.Select(orderColumns).From("orders o").Where(sq.Eq{"o.client_id": clientID}).OrderBy("o.created_at DESC"),
		limit, 0,
	).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок клиента: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
