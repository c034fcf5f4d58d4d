package entities

import "time"

type StatusCount struct {
	Status string `db:"status"`
	Count  uint64 `db:"count"`
}

// TechnicianStats сырые показатели техника; проценты и средние считает сервис.
type TechnicianStats struct {
	TechnicianID      uint64  `db:"id"`
	Username          string  `db:"username"`
	Assigned          uint64  `db:"assigned"`
	Completed         uint64  `db:"completed"`
	AvgResolutionSecs float64 `db:"avg_resolution_secs"`
}

// ExportRow строка выгрузки заявок.
type ExportRow struct {
	TicketCode         string
	ClientName         string
	ClientPhone        *string
	ServiceType        string
	ProblemDescription string
	Status             string
	TechnicianUsername *string
	CreatorUsername    *string
	CreatedAt          time.Time
	ClosedAt           *time.Time
}
