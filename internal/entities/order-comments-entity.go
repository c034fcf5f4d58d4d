package entities

import (
	"time"

	"fixtrack/pkg/constants"
)

type OrderComment struct {
	ID          uint64                `json:"id" db:"id"`
	OrderID     uint64                `json:"order_id" db:"order_id"`
	UserID      uint64                `json:"user_id" db:"user_id"`
	CommentType constants.CommentType `json:"comment_type" db:"comment_type"`
	Content     string                `json:"content" db:"content"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`

	AuthorUsername *string `json:"author_username,omitempty" db:"-"`
}
