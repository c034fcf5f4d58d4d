package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
)

const clientSelectFields = "c.id, c.name, c.phone, c.email, c.address, c.notes, c.created_at, c.updated_at"

type ClientRepositoryInterface interface {
	List(ctx context.Context, search string, limit, offset int) ([]entities.Client, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Client, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Client, error)
	FindByPhoneOrEmail(ctx context.Context, phone, email string) (*entities.Client, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error
}

type ClientRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewClientRepository(storage *pgxpool.Pool, logger *zap.Logger) ClientRepositoryInterface {
	return &ClientRepository{storage: storage, logger: logger}
}

func scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

// List поиск по имени, телефону и email; сортировка по имени.
func (r *ClientRepository) List(ctx context.Context, search string, limit, offset int) ([]entities.Client, uint64, error) {
	base := psql.Select().From("clients c")
	if search != "" {
		like := "%" + search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"c.name": like},
			sq.ILike{"c.phone": like},
			sq.ILike{"c.email": like},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(c.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта клиентов: %w", err)
	}
	if total == 0 {
		return []entities.Client{}, 0, nil
	}

	builder := base.Columns(clientSelectFields).OrderBy("c.name ASC", "c.id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения клиентов: %w", err)
	}
	defer rows.Close()

	clients := make([]entities.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, *c)
	}
	return clients, total, rows.Err()
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint64) (*entities.Client, error) {
	return r.FindByIDInTx(ctx, nil, id)
}

func (r *ClientRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Client, error) {
	query := "SELECT " + clientSelectFields + " FROM clients c WHERE c.id = $1"
	return scanClient(pick(r.storage, tx).QueryRow(ctx, query, id))
}

// FindByPhoneOrEmail ищет первого клиента с таким телефоном или email.
func (r *ClientRepository) FindByPhoneOrEmail(ctx context.Context, phone, email string) (*entities.Client, error) {
	conds := sq.Or{}
	if phone != "" {
		conds = append(conds, sq.Eq{"c.phone": phone})
	}
	if email != "" {
		conds = append(conds, sq.Expr("LOWER(c.email) = LOWER(?)", email))
	}
	query, args, err := psql.Select(clientSelectFields).From("clients c").Where(conds).OrderBy("c.id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return scanClient(r.storage.QueryRow(ctx, query, args...))
}

func (r *ClientRepository) CreateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error {
	query := `INSERT INTO clients (name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		client.Name, client.Phone, client.Email, client.Address, client.Notes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания клиента: %w", err)
	}
	return nil
}

func (r *ClientRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error {
	query := `UPDATE clients SET name = $1, phone = $2, email = $3, address = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 RETURNING updated_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		client.Name, client.Phone, client.Email, client.Address, client.Notes, client.ID,
	).Scan(&client.UpdatedAt)
	return mapNotFound(err)
}
