package constants

// OrderStatus статус заявки в том виде, в каком он хранится в БД и передаётся по сети.
type OrderStatus string

// --- СТАТУСЫ ЗАЯВОК ---
const (
	StatusPending      OrderStatus = "pending"
	StatusInReview     OrderStatus = "in_review"
	StatusWaitingParts OrderStatus = "waiting_parts"
	StatusRepaired     OrderStatus = "repaired"
	StatusCompleted    OrderStatus = "completed"
	StatusCancelled    OrderStatus = "cancelled"

	// StatusClosedAlias принимается во входных данных как синоним completed.
	StatusClosedAlias OrderStatus = "closed"
)

var orderStatuses = []OrderStatus{
	StatusPending,
	StatusInReview,
	StatusWaitingParts,
	StatusRepaired,
	StatusCompleted,
	StatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	StatusPending:      "Ожидает",
	StatusInReview:     "На диагностике",
	StatusWaitingParts: "Ожидает запчасти",
	StatusRepaired:     "Отремонтировано",
	StatusCompleted:    "Завершено",
	StatusCancelled:    "Отменено",
	StatusClosedAlias:  "Завершено",
}

// OrderStatuses возвращает все допустимые статусы в порядке жизненного цикла.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus разбирает входное значение. "closed" превращается в completed.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	s := OrderStatus(value)
	if s == StatusClosedAlias {
		return StatusCompleted, true
	}
	if s.IsValid() {
		return s, true
	}
	return "", false
}

func (s OrderStatus) IsValid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsClosed сообщает, находится ли заявка в завершённом (терминальном) состоянии.
// Старые записи со статусом "closed" тоже считаются закрытыми.
func (s OrderStatus) IsClosed() bool {
	return s == StatusCompleted || s == StatusClosedAlias
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s OrderStatus) String() string {
	return string(s)
}

// StatusFilterValues раскрывает значение фильтра в набор статусов для запроса.
// closed и completed ищутся вместе.
func StatusFilterValues(value string) []string {
	switch OrderStatus(value) {
	case StatusClosedAlias, StatusCompleted:
		return []string{string(StatusCompleted), string(StatusClosedAlias)}
	case "":
		return nil
	default:
		return []string{value}
	}
}
