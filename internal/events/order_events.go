package events

import "fixtrack/pkg/constants"

const OrderChangedEventName = "order.changed"

// OrderChangedEvent публикуется после фиксации транзакции, изменившей заявку.
type OrderChangedEvent struct {
	OrderID   uint64
	OldStatus constants.OrderStatus
	NewStatus constants.OrderStatus
	ActorID   uint64
	Action    string
}

func (e OrderChangedEvent) Name() string {
	return OrderChangedEventName
}

// Действия, которые попадают в событие.
const (
	ActionCreated    = "created"
	ActionFields     = "fields_updated"
	ActionAssigned   = "assigned"
	ActionSelfAssign = "self_assigned"
	ActionReassigned = "reassigned"
	ActionStatus     = "status_changed"
	ActionClosed     = "closed"
)
