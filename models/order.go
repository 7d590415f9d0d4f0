package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Order struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	RestaurantID uint          `gorm:"not null;index:idx_order_restaurant_date" json:"restaurant_id" binding:"required"`
	Restaurant   *Restaurant   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CustomerID   *uint         `gorm:"index" json:"customer_id"`
	Customer     *Customer     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	OrderDate    time.Time     `gorm:"not null;index:idx_order_restaurant_date" json:"order_date"`
	TotalAmount  float64       `gorm:"type:decimal(10,2);not null" json:"total_amount" binding:"gte=0"`
	Status       OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Slug         string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Details      []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"details"`
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}

	var restaurant Restaurant
	if err := loadRef(tx, &restaurant, o.RestaurantID, "restaurant_id"); err != nil {
		return err
	}
	if o.CustomerID != nil {
		var customer Customer
		if err := loadRef(tx, &customer, *o.CustomerID, "customer_id"); err != nil {
			return err
		}
	}

	if o.Slug == "" {
		o.Slug = Slugify("order", restaurant.Name, o.OrderDate.Format("20060102150405"), shortID())
	}
	return nil
}

type OrderDetail struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index:idx_order_detail_order_dish" json:"order_id" binding:"required"`
	DishID    uint           `gorm:"not null;index:idx_order_detail_order_dish" json:"dish_id" binding:"required"`
	Dish      *Dish          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Quantity  int            `gorm:"not null" json:"quantity" binding:"required,min=1"`
	Price     float64        `gorm:"type:decimal(10,2);not null" json:"price" binding:"gte=0"`
	Modifiers datatypes.JSON `json:"modifiers"`
}

func (d *OrderDetail) BeforeSave(tx *gorm.DB) error {
	var order Order
	if err := loadRef(tx, &order, d.OrderID, "order_id"); err != nil {
		return err
	}
	var dish Dish
	return loadRef(tx, &dish, d.DishID, "dish_id")
}
