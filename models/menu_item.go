package models

import "time"

// MenuOption mendeskripsikan customization yang tersedia untuk satu item
// (misal "Sucre" dengan pilihan ["Sans", "Un peu", "Normal"]).
type MenuOption struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // 'select' atau 'checkbox'
	Choices  []string `json:"choices"`
	Required bool     `json:"required"`
}

type MenuItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string       `gorm:"type:varchar(50);not null" json:"category"`
	Options     []MenuOption `gorm:"serializer:json" json:"options,omitempty"`
	ImageURL    *string      `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	// IsAvailable -> toggle dapur jangka pendek ("sold out").
	IsAvailable bool `gorm:"not null;default:true" json:"is_available"`
	// IsActive -> toggle manager jangka panjang (disembunyikan dari menu).
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}
