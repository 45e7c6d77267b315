package model

import "time"

type AuditAction string

const (
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
	AuditActionAdjustStock       AuditAction = "ADJUST_STOCK"
)

type AuditResource string

const (
	AuditResourceOrder   AuditResource = "order"
	AuditResourceProduct AuditResource = "product"
)

type AuditLog struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID        int64         `gorm:"not null;index" json:"gym_id"`
	ActorUserID  int64         `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction   `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType AuditResource `gorm:"type:varchar(50);not null" json:"resource_type"`
	ResourceID   int64         `gorm:"not null" json:"resource_id"`
	BeforeJSON   string        `gorm:"type:text" json:"before_json"`
	AfterJSON    string        `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
}
