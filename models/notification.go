package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type NotificationAction string

const (
	ActionConfirmed NotificationAction = "confirmed"
	ActionCancelled NotificationAction = "cancelled"
)

func ParseNotificationAction(s string) (NotificationAction, error) {
	a := NotificationAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("invalid notification action %q", s)
	}
	return a, nil
}

func (a NotificationAction) Valid() bool {
	return a == ActionConfirmed || a == ActionCancelled
}

// UnmarshalJSON keeps the raw value; a queue consumer decides what to do with
// an unknown action.
func (a *NotificationAction) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NotificationAction(raw)
	return nil
}

type DeliveryStatus string

const (
	DeliverySent     DeliveryStatus = "sent"
	DeliverySkipped  DeliveryStatus = "skipped"
	DeliveryNotFound DeliveryStatus = "not_found"
	DeliveryFailed   DeliveryStatus = "failed"
)

// Notification records the final outcome of a reservation mail.
// ReservationID is not a foreign key: a not_found outcome has nothing to point to.
type Notification struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	MessageID     string             `gorm:"type:varchar(36);index" json:"message_id"`
	ReservationID uint               `gorm:"not null;index" json:"reservation_id"`
	Action        NotificationAction `gorm:"type:varchar(20);not null" json:"action"`
	Recipient     *string            `gorm:"type:varchar(255)" json:"recipient"`
	Subject       *string            `gorm:"type:varchar(255)" json:"subject"`
	Status        DeliveryStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Attempts      int                `gorm:"not null" json:"attempts"`
	Error         *string            `gorm:"type:text" json:"error"`
	CreatedAt     time.Time          `gorm:"not null" json:"created_at"`
}
