package models

import (
	"strconv"

	"gorm.io/gorm"
)

type Table struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_table_restaurant_number" json:"restaurant_id" binding:"required"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber  int         `gorm:"not null;uniqueIndex:idx_table_restaurant_number" json:"table_number" binding:"required,min=1"`
	Capacity     int         `gorm:"not null" json:"capacity" binding:"required,min=1"`
	Status       TableStatus `gorm:"type:varchar(10);not null;default:'FREE'" json:"status"`
	Slug         string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (t *Table) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TableFree
	}
	var restaurant Restaurant
	if err := loadRef(tx, &restaurant, t.RestaurantID, "restaurant_id"); err != nil {
		return err
	}
	t.Slug = Slugify(restaurant.Name, strconv.Itoa(t.TableNumber))
	return nil
}
