package db

import (
	sq "github.com/Masterminds/squirrel"

	"fixtrack/internal/entities"
)

// ApplyOrderFilter добавляет к выборке условия фильтра заявок. Таблица orders должна иметь алиас o.
func ApplyOrderFilter(builder sq.SelectBuilder, f entities.OrderFilter) sq.SelectBuilder {
	if len(f.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"o.status": f.Statuses})
	}
	if f.ServiceType != "" {
		builder = builder.Where(sq.Eq{"o.service_type": f.ServiceType})
	}
	if f.TechnicianID != nil {
		builder = builder.Where(sq.Eq{"o.assigned_technician_id": *f.TechnicianID})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"o.ticket_code": like},
			sq.ILike{"o.client_name": like},
			sq.ILike{"o.problem_description": like},
		})
	}
	if f.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"o.created_at": *f.StartDate})
	}
	if f.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"o.created_at": *f.EndDate})
	}
	return builder
}

// ApplyPagination добавляет LIMIT/OFFSET; limit <= 0 оставляет выборку без ограничения.
func ApplyPagination(builder sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit <= 0 {
		return builder
	}
	builder = builder.Limit(uint64(limit))
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}
	return builder
}
