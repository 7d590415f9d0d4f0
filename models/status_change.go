package models

import "time"

const (
	EntityTable       = "table"
	EntityReservation = "reservation"
	EntityOrder       = "order"
)

// StatusChange is the audit trail of every transition made through the
// action endpoints.
type StatusChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Entity     string    `gorm:"type:varchar(20);not null;index:idx_status_change_entity" json:"entity"`
	EntityID   uint      `gorm:"not null;index:idx_status_change_entity" json:"entity_id"`
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	UserID     *uint     `json:"user_id"`
	ChangedAt  time.Time `gorm:"autoCreateTime" json:"changed_at"`
}
