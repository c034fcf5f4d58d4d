package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

type UpdateUserDTO struct {
	Username null.String `json:"username" validate:"omitempty,min=3,max=100"`
	Role     null.String `json:"role" validate:"omitempty,role"`
}

type SetUserActiveDTO struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password"`
}

// ResetPasswordResponseDTO временный пароль возвращается только если он сгенерирован сервером.
type ResetPasswordResponseDTO struct {
	User              UserDTO `json:"user"`
	TemporaryPassword *string `json:"temporary_password,omitempty"`
}
