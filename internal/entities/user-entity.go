// Файл: internal/entities/user-entity.go
package entities

import (
	"time"

	"fixtrack/pkg/constants"
)

type User struct {
	ID                 uint64         `json:"id" db:"id"`
	Username           string         `json:"username" db:"username"`
	PasswordHash       string         `json:"-" db:"password_hash"`
	Role               constants.Role `json:"role" db:"role"`
	IsActive           bool           `json:"is_active" db:"is_active"`
	MustChangePassword bool           `json:"must_change_password" db:"must_change_password"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// IsActiveTechnician сообщает, может ли пользователь быть назначен на заявку.
func (u *User) IsActiveTechnician() bool {
	return u != nil && u.IsActive && u.Role == constants.RoleTechnician
}
