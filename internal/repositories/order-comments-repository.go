package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
)

type OrderCommentRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, comment *entities.OrderComment) error
	// ListByOrder без типов возвращает все комментарии.
	ListByOrder(ctx context.Context, orderID uint64, types ...constants.CommentType) ([]entities.OrderComment, error)
}

type OrderCommentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderCommentRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderCommentRepositoryInterface {
	return &OrderCommentRepository{storage: storage, logger: logger}
}

func (r *OrderCommentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, comment *entities.OrderComment) error {
	query := `INSERT INTO order_comments (order_id, user_id, comment_type, content, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		comment.OrderID, comment.UserID, comment.CommentType, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи в 'order_comments': %w", err)
	}
	return nil
}

func (r *OrderCommentRepository) ListByOrder(ctx context.Context, orderID uint64, types ...constants.CommentType) ([]entities.OrderComment, error) {
	builder := psql.Select("c.id", "c.order_id", "c.user_id", "c.comment_type", "c.content", "c.created_at", "u.username").
		From("order_comments c").
		LeftJoin("users u ON u.id = c.user_id").
		Where(sq.Eq{"c.order_id": orderID}).
		OrderBy("c.created_at DESC", "c.id DESC")
	if len(types) > 0 {
		values := make([]string, len(types))
		for i, t := range types {
			values[i] = string(t)
		}
		builder = builder.Where(sq.Eq{"c.comment_type": values})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения комментариев: %w", err)
	}
	defer rows.Close()

	comments := make([]entities.OrderComment, 0)
	for rows.Next() {
		var c entities.OrderComment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.UserID, &c.CommentType, &c.Content, &c.CreatedAt, &c.AuthorUsername); err != nil {
			return nil, fmt.Errorf("ошибка сканирования комментария: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
