package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	apperrors "fixtrack/pkg/errors"
)

const userSelectFields = "u.id, u.username, u.password_hash, u.role, u.is_active, u.must_change_password, u.created_at, u.updated_at"

// UserListFilter фильтр списка сотрудников. Limit == 0 без ограничения.
type UserListFilter struct {
	Role     string
	IsActive *bool
	Search   string
	Limit    int
	Offset   int
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error)
	List(ctx context.Context, filter UserListFilter) ([]entities.User, uint64, error)
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error
	CountByRole(ctx context.Context, role string) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.IsActive, &user.MustChangePassword, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, q querier, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := psql.Select(userSelectFields).From("users u").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса пользователя: %w", err)
	}
	return scanUser(q.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"u.id": id})
}

func (r *UserRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	return r.findOne(ctx, pick(r.storage, tx), sq.Eq{"u.id": id})
}

// FindByUsername точное совпадение логина.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"u.username": username})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From("users").Where(sq.Eq{"username": username}).Limit(1)
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := builder.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки логина: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, filter UserListFilter) ([]entities.User, uint64, error) {
	base := psql.Select().From("users u")
	if filter.Role != "" {
		base = base.Where(sq.Eq{"u.role": filter.Role})
	}
	if filter.IsActive != nil {
		base = base.Where(sq.Eq{"u.is_active": *filter.IsActive})
	}
	if filter.Search != "" {
		base = base.Where(sq.ILike{"u.username": "%" + filter.Search + "%"})
	}

	countQuery, countArgs, err := base.Columns("COUNT(u.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	listBuilder := base.Columns(userSelectFields).OrderBy("u.created_at DESC", "u.id DESC")
	if filter.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `INSERT INTO users (username, password_hash, role, is_active, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	err := r.storage.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.IsActive, user.MustChangePassword,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// Update сохраняет логин, роль и флаг активности.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query := `UPDATE users SET username = $1, role = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4 RETURNING updated_at`
	err := r.storage.QueryRow(ctx, query, user.Username, user.Role, user.IsActive, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return mapNotFound(err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE users SET password_hash = $1, must_change_password = $2, updated_at = NOW() WHERE id = $3`,
		passwordHash, mustChange, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}
