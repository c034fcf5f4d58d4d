package dto

import (
	"github.com/aarondl/null/v8"

	"fixtrack/internal/entities"
)

type CreateClientDTO struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateClientDTO struct {
	Name    null.String `json:"name" validate:"omitempty,max=255"`
	Phone   null.String `json:"phone" validate:"omitempty,max=50"`
	Email   null.String `json:"email" validate:"omitempty,email"`
	Address null.String `json:"address"`
	Notes   null.String `json:"notes"`
}

type ClientDetailDTO struct {
	entities.Client
	RecentOrders []entities.Order `json:"recent_orders"`
}

type ClientDuplicateDTO struct {
	Exists bool             `json:"exists"`
	Client *entities.Client `json:"client"`
}
