package entities

import (
	"time"

	"fixtrack/pkg/constants"
)

// Order заявка на обслуживание. SecurityKey никогда не сериализуется в JSON.
type Order struct {
	ID                   uint64                `json:"id" db:"id"`
	TicketCode           string                `json:"ticket_code" db:"ticket_code"`
	SecurityKey          string                `json:"-" db:"security_key"`
	ClientID             *uint64               `json:"client_id" db:"client_id"`
	ClientName           string                `json:"client_name" db:"client_name"`
	ClientPhone          *string               `json:"client_phone" db:"client_phone"`
	ClientEmail          *string               `json:"client_email" db:"client_email"`
	ServiceType          constants.ServiceType `json:"service_type" db:"service_type"`
	ProblemDescription   string                `json:"problem_description" db:"problem_description"`
	Status               constants.OrderStatus `json:"status" db:"status"`
	Accessories          []string              `json:"accessories" db:"accessories"`
	AssignedTechnicianID *uint64               `json:"assigned_technician_id" db:"assigned_technician_id"`
	CreatedBy            uint64                `json:"created_by" db:"created_by"`
	ClosedAt             *time.Time            `json:"closed_at" db:"closed_at"`
	CreatedAt            time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at" db:"updated_at"`
}

func (o *Order) IsAssignedTo(userID uint64) bool {
	return o.AssignedTechnicianID != nil && *o.AssignedTechnicianID == userID
}

// OrderWithNames заявка вместе с логинами техника и автора для списков и карточки.
type OrderWithNames struct {
	Order
	TechnicianUsername *string `json:"technician_username"`
	CreatorUsername    *string `json:"creator_username"`
}

// OrderFilter общий фильтр для списков, отчётов и выгрузки.
// Limit == 0 означает выборку без ограничения.
type OrderFilter struct {
	Statuses     []string
	ServiceType  string
	Search       string
	StartDate    *time.Time
	EndDate      *time.Time
	TechnicianID *uint64
	Limit        int
	Offset       int
}
