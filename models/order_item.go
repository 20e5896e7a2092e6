package models

import "time"

// SelectedOption adalah pilihan customization yang dipilih customer
// (misal name="Sucre", value="Sans").
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderItem adalah snapshot immutable dari satu baris pesanan. Harga diambil
// dari katalog saat submit dan tidak pernah dihitung ulang.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Order tidak ikut di JSON untuk menghindari nesting rekursif.
	Order               Order            `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID          uint             `gorm:"not null" json:"menu_item_id"`
	Name                string           `gorm:"type:varchar(255);not null" json:"name"`
	Quantity            int              `gorm:"not null" json:"quantity"`
	Price               float64          `gorm:"type:decimal(10,2);not null" json:"price"`
	SelectedOptions     []SelectedOption `gorm:"serializer:json" json:"selected_options,omitempty"`
	SpecialInstructions string           `gorm:"type:text" json:"special_instructions,omitempty"`
	CreatedAt           time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"not null" json:"updated_at"`
}
