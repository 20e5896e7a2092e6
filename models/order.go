package models

import "time"

// Status order. "ready" bersifat terminal; "cancelled" menghapus record.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCancelled = "cancelled"
)

// ActiveOrderStatuses dipakai untuk cek invariant satu order aktif per meja.
var ActiveOrderStatuses = []string{OrderStatusPending, OrderStatusPreparing}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableID     uint        `gorm:"not null" json:"table_id"`
	Table       Table       `gorm:"foreignKey:TableID" json:"-"`
	TableNumber int         `gorm:"index;not null" json:"table_number"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// CustomerNotes diisi customer saat submit, bukan oleh dapur.
	CustomerNotes  string     `gorm:"type:text" json:"customer_notes,omitempty"`
	KitchenStaffID *uint      `gorm:"index" json:"kitchen_staff_id,omitempty"`
	KitchenStaff   *User      `gorm:"foreignKey:KitchenStaffID" json:"kitchen_staff,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	ReadyAt        *time.Time `json:"ready_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

// IsActive -> order masih menduduki meja (pending/preparing).
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPreparing
}
