package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
)

// OrderUpdateRepositoryInterface журнал статусов только добавляет записи и читает их.
type OrderUpdateRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, update *entities.OrderUpdate) error
	ListByOrder(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error)
}

type OrderUpdateRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderUpdateRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderUpdateRepositoryInterface {
	return &OrderUpdateRepository{storage: storage, logger: logger}
}

func (r *OrderUpdateRepository) CreateInTx(ctx context.Context, tx pgx.Tx, update *entities.OrderUpdate) error {
	query := `INSERT INTO order_updates (order_id, old_status, new_status, changed_by, change_note, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		update.OrderID, update.OldStatus, update.NewStatus, update.ChangedBy, update.ChangeNote,
	).Scan(&update.ID, &update.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи в 'order_updates': %w", err)
	}
	return nil
}

// ListByOrder записи журнала от новых к старым.
func (r *OrderUpdateRepository) ListByOrder(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error) {
	query := `SELECT h.id, h.order_id, h.old_status, h.new_status, h.changed_by, h.change_note, h.created_at, u.username
		FROM order_updates h
		LEFT JOIN users u ON u.id = h.changed_by
		WHERE h.order_id = $1
		ORDER BY h.created_at DESC, h.id DESC`
	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории заявки: %w", err)
	}
	defer rows.Close()

	updates := make([]entities.OrderUpdate, 0)
	for rows.Next() {
		var h entities.OrderUpdate
		if err := rows.Scan(&h.ID, &h.OrderID, &h.OldStatus, &h.NewStatus, &h.ChangedBy, &h.ChangeNote, &h.CreatedAt, &h.ChangedByUsername); err != nil {
			return nil, fmt.Errorf("ошибка сканирования истории: %w", err)
		}
		updates = append(updates, h)
	}
	return updates, rows.Err()
}
