package entities

import "time"

type Attachment struct {
	ID           uint64    `json:"id" db:"id"`
	OrderID      uint64    `json:"order_id" db:"order_id"`
	FilePath     string    `json:"file_path" db:"file_path"`
	OriginalName string    `json:"original_name" db:"original_name"`
	MimeType     string    `json:"mime_type" db:"mime_type"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	UploadedBy   uint64    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	UploaderUsername *string `json:"uploader_username,omitempty" db:"-"`
}
