package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
)

type AttachmentRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, attachment *entities.Attachment) error
	ListByOrder(ctx context.Context, orderID uint64) ([]entities.Attachment, error)
}

type AttachmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAttachmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AttachmentRepositoryInterface {
	return &AttachmentRepository{storage: storage, logger: logger}
}

func (r *AttachmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, a *entities.Attachment) error {
	query := `INSERT INTO order_attachments (order_id, file_path, original_name, mime_type, file_size, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		a.OrderID, a.FilePath, a.OriginalName, a.MimeType, a.FileSize, a.UploadedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи в 'order_attachments': %w", err)
	}
	return nil
}

func (r *AttachmentRepository) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Attachment, error) {
	query := `SELECT a.id, a.order_id, a.file_path, a.original_name, a.mime_type, a.file_size, a.uploaded_by, a.created_at, u.username
		FROM order_attachments a
		LEFT JOIN users u ON u.id = a.uploaded_by
		WHERE a.order_id = $1
		ORDER BY a.created_at DESC, a.id DESC`
	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вложений: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Attachment, 0)
	for rows.Next() {
		var a entities.Attachment
		if err := rows.Scan(&a.ID, &a.OrderID, &a.FilePath, &a.OriginalName, &a.MimeType, &a.FileSize, &a.UploadedBy, &a.CreatedAt, &a.UploaderUsername); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вложения: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
