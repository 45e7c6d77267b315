package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "pending_approval"
	OrderStatusPrepared        OrderStatus = "prepared"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// IsValidは遷移先として受け付けるステータスかどうか。
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingApproval, OrderStatusPrepared, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID       int64             `gorm:"not null;uniqueIndex:idx_orders_gym_number" json:"gym_id"`
	UserID      int64             `gorm:"not null;index" json:"user_id"`
	OrderNumber string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_gym_number" json:"order_number"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      OrderStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price_snapshot"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 注文番号の連番カウンタ（ジム×日付ごとに1行）。
// 採番はこの行へのatomicなUPDATEだけで行う。
type OrderCounter struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	GymID   int64  `gorm:"not null;uniqueIndex:idx_order_counters_gym_day"`
	DayKey  string `gorm:"type:varchar(8);not null;uniqueIndex:idx_order_counters_gym_day"`
	LastSeq int64  `gorm:"not null;default:0"`
}
