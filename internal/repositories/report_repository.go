package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	db "fixtrack/internal/infrastructure/bd"
	"fixtrack/pkg/constants"
)

type ReportRepositoryInterface interface {
	StatusDistribution(ctx context.Context, filter entities.OrderFilter) ([]entities.StatusCount, error)
	TechnicianPerformance(ctx context.Context, filter entities.OrderFilter) ([]entities.TechnicianStats, error)
	ProblemDescriptions(ctx context.Context, filter entities.OrderFilter) ([]string, error)
	ExportRows(ctx context.Context, filter entities.OrderFilter) ([]entities.ExportRow, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

func closedStatuses() []string {
	return constants.StatusFilterValues(string(constants.StatusCompleted))
}

func (r *ReportRepository) StatusDistribution(ctx context.Context, filter entities.OrderFilter) ([]entities.StatusCount, error) {
	builder := db.ApplyOrderFilter(psql.Select("o.status", "COUNT(o.id)").From("orders o"), filter).
		GroupBy("o.status").
		OrderBy("o.status")
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса распределения: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения распределения по статусам: %w", err)
	}
	defer rows.Close()

	result := make([]entities.StatusCount, 0)
	for rows.Next() {
		var sc entities.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

// TechnicianPerformance показатели по каждому активному технику, включая тех, у кого нет заявок за период.
func (r *ReportRepository) TechnicianPerformance(ctx context.Context, filter entities.OrderFilter) ([]entities.TechnicianStats, error) {
	filtered := db.ApplyOrderFilter(
		sq.Select("o.id", "o.assigned_technician_id", "o.status", "o.created_at", "o.closed_at").From("orders o"),
		filter,
	)
	subQuery, subArgs, err := filtered.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки подзапроса: %w", err)
	}

	done := closedStatuses()
	builder := psql.Select(
		"u.id",
		"u.username",
		"COUNT(f.id)",
		"COUNT(f.id) FILTER (WHERE f.status IN ('"+done[0]+"', '"+done[1]+"'))",
		"COALESCE(AVG(EXTRACT(EPOCH FROM (f.closed_at - f.created_at))) FILTER (WHERE f.closed_at IS NOT NULL AND f.status IN ('"+done[0]+"', '"+done[1]+"')), 0)::float8",
	).
		From("users u").
		LeftJoin("("+subQuery+") f ON f.assigned_technician_id = u.id", subArgs...).
		Where(sq.Eq{"u.role": string(constants.RoleTechnician), "u.is_active": true}).
		GroupBy("u.id", "u.username").
		OrderBy("u.username")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса эффективности: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения эффективности техников: %w", err)
	}
	defer rows.Close()

	stats := make([]entities.TechnicianStats, 0)
	for rows.Next() {
		var s entities.TechnicianStats
		if err := rows.Scan(&s.TechnicianID, &s.Username, &s.Assigned, &s.Completed, &s.AvgResolutionSecs); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *ReportRepository) ProblemDescriptions(ctx context.Context, filter entities.OrderFilter) ([]string, error) {
	query, args, err := db.ApplyOrderFilter(psql.Select("o.problem_description").From("orders o"), filter).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения описаний проблем: %w", err)
	}
	defer rows.Close()

	descriptions := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		descriptions = append(descriptions, d)
	}
	return descriptions, rows.Err()
}

func (r *ReportRepository) ExportRows(ctx context.Context, filter entities.OrderFilter) ([]entities.ExportRow, error) {
	builder := db.ApplyOrderFilter(
		psql.Select(
			"o.ticket_code", "o.client_name", "o.client_phone", "o.service_type", "o.problem_description",
			"o.status", "tech.username", "creator.username", "o.created_at", "o.closed_at",
		).From(orderJoins),
		filter,
	).OrderBy("o.created_at DESC", "o.id DESC")

	query, args, err := db.ApplyPagination(builder, filter.Limit, filter.Offset).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выгрузки заявок: %w", err)
	}
	defer rows.Close()

	result := make([]entities.ExportRow, 0)
	for rows.Next() {
		var row entities.ExportRow
		if err := rows.Scan(
			&row.TicketCode, &row.ClientName, &row.ClientPhone, &row.ServiceType, &row.ProblemDescription,
			&row.Status, &row.TechnicianUsername, &row.CreatorUsername, &row.CreatedAt, &row.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
