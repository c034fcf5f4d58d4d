package dto

import "time"

type PublicOrderDTO struct {
	TicketCode         string     `json:"ticket_code"`
	ClientName         string     `json:"client_name"`
	ServiceType        string     `json:"service_type"`
	ProblemDescription string     `json:"problem_description"`
	Status             string     `json:"status"`
	Accessories        []string   `json:"accessories"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at"`
}

type PublicOrderUpdateDTO struct {
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ChangeNote *string   `json:"change_note"`
	CreatedAt  time.Time `json:"created_at"`
}

type PublicCommentDTO struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
