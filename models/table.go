package models

import "time"

type Table struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableNumber int    `gorm:"uniqueIndex;not null" json:"table_number"`
	QRCodeURL   string `gorm:"type:varchar(255)" json:"qr_code_url"`
	// CurrentOrderID hanya pointer bantu untuk lookup cepat, bukan sumber
	// kebenaran; status meja ditentukan oleh ada/tidaknya order aktif.
	CurrentOrderID *uint `gorm:"index" json:"current_order_id,omitempty"`
	// SessionToken tidak pernah ikut di response biasa.
	SessionToken         *string    `gorm:"type:varchar(64)" json:"-"`
	LastOrderCompletedAt *time.Time `json:"last_order_completed_at,omitempty"`
	CreatedAt            time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null" json:"updated_at"`
}
