package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"not null;index" json:"order_id" binding:"required"`
	Order         *Order        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount" binding:"gte=0"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method" binding:"required"`
	TransactionID *string       `gorm:"type:varchar(100)" json:"transaction_id" binding:"omitempty,max=100"`
	PaymentTime   time.Time     `gorm:"not null" json:"payment_time"`
	Slug          string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.PaymentTime.IsZero() {
		p.PaymentTime = time.Now()
	}

	var order Order
	if err := loadRef(tx, &order, p.OrderID, "order_id"); err != nil {
		return err
	}

	if p.Slug == "" {
		var restaurant Restaurant
		if err := loadRef(tx, &restaurant, order.RestaurantID, "restaurant_id"); err != nil {
			return err
		}
		p.Slug = Slugify("payment", restaurant.Name, p.PaymentTime.Format("20060102150405"), shortID())
	}
	return nil
}
