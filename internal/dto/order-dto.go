package dto

import (
	"github.com/aarondl/null/v8"

	"fixtrack/internal/entities"
)

type CreateOrderDTO struct {
	ClientName         string   `json:"client_name" validate:"required,max=255"`
	ClientPhone        string   `json:"client_phone" validate:"omitempty,max=50"`
	ClientEmail        string   `json:"client_email" validate:"omitempty,email"`
	ClientID           *uint64  `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	CreateClient       bool     `json:"create_client"`
	ServiceType        string   `json:"service_type" validate:"required,service_type"`
	ProblemDescription string   `json:"problem_description" validate:"required"`
	Accessories        []string `json:"accessories"`
}

// CreateOrderResponseDTO единственный ответ, в котором клиенту показывается security_key.
type CreateOrderResponseDTO struct {
	Order       entities.Order `json:"order"`
	TicketCode  string         `json:"ticket_code"`
	SecurityKey string         `json:"security_key"`
}

// UpdateOrderDTO правка описательных полей. Статус здесь не меняется.
type UpdateOrderDTO struct {
	ClientName         null.String `json:"client_name" validate:"omitempty,max=255"`
	ClientPhone        null.String `json:"client_phone" validate:"omitempty,max=50"`
	ClientEmail        null.String `json:"client_email" validate:"omitempty,email"`
	ServiceType        null.String `json:"service_type" validate:"omitempty,service_type"`
	ProblemDescription null.String `json:"problem_description"`
	Accessories        []string    `json:"accessories"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type CloseOrderDTO struct {
	ClosingNotes string `json:"closing_notes"`
}

type CreateCommentDTO struct {
	Content     string `json:"content" validate:"required"`
	CommentType string `json:"comment_type"`
}

type AttachmentDTO struct {
	entities.Attachment
	URL string `json:"url"`
}

type OrderDetailDTO struct {
	entities.OrderWithNames
	Comments    []entities.OrderComment `json:"comments"`
	Updates     []entities.OrderUpdate  `json:"updates"`
	Attachments []AttachmentDTO         `json:"attachments"`
}

type TechOrderDTO struct {
	entities.OrderWithNames
	IsAssignedToMe bool `json:"is_assigned_to_me"`
}
