package entities

import (
	"time"

	"fixtrack/pkg/constants"
)

// OrderUpdate запись журнала изменений статуса. Только добавляется.
type OrderUpdate struct {
	ID         uint64                `json:"id" db:"id"`
	OrderID    uint64                `json:"order_id" db:"order_id"`
	OldStatus  constants.OrderStatus `json:"old_status" db:"old_status"`
	NewStatus  constants.OrderStatus `json:"new_status" db:"new_status"`
	ChangedBy  uint64                `json:"changed_by" db:"changed_by"`
	ChangeNote *string               `json:"change_note" db:"change_note"`
	CreatedAt  time.Time             `json:"created_at" db:"created_at"`

	ChangedByUsername *string `json:"changed_by_username,omitempty" db:"-"`
}
