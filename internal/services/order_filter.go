package services

import (
	"strconv"

	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/types"
	"fixtrack/pkg/utils"
)

// OrderFilterKeys параметры запроса, которые понимает BuildOrderFilter.
var OrderFilterKeys = []string{"status", "service_type", "start_date", "end_date", "technician_id"}

// BuildOrderFilter переводит параметры запроса в фильтр заявок.
// Конечная дата включается целиком, до конца суток.
func BuildOrderFilter(f types.Filter) (entities.OrderFilter, error) {
	out := entities.OrderFilter{
		Search: f.Search,
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	if status := f.Value("status"); status != "" {
		if status != string(constants.StatusClosedAlias) && !constants.OrderStatus(status).IsValid() {
			return out, apperrors.NewValidationError("Недопустимый статус в фильтре")
		}
		out.Statuses = constants.StatusFilterValues(status)
	}
	if st := f.Value("service_type"); st != "" {
		if !constants.ServiceType(st).IsValid() {
			return out, apperrors.NewValidationError("Недопустимый тип услуги в фильтре")
		}
		out.ServiceType = st
	}
	if raw := f.Value("start_date"); raw != "" {
		start, ok := utils.ParseDate(raw)
		if !ok {
			return out, apperrors.NewValidationError("Некорректная дата начала периода")
		}
		out.StartDate = start
	}
	if raw := f.Value("end_date"); raw != "" {
		end, ok := utils.ParseDate(raw)
		if !ok {
			return out, apperrors.NewValidationError("Некорректная дата окончания периода")
		}
		endOfDay := utils.EndOfDay(*end)
		out.EndDate = &endOfDay
	}
	if raw := f.Value("technician_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return out, apperrors.NewValidationError("Некорректный technician_id")
		}
		out.TechnicianID = &id
	}
	return out, nil
}
