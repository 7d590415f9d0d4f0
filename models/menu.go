package models

import (
	"time"

	"gorm.io/gorm"
)

type Menu struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_menu_restaurant_name" json:"restaurant_id" binding:"required"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_restaurant_name" json:"name" binding:"required,max=100"`
	Description  *string     `gorm:"type:text" json:"description"`
	StartDate    string      `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate      *string     `gorm:"type:varchar(10)" json:"end_date"`
	Slug         string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (m *Menu) BeforeSave(tx *gorm.DB) error {
	if m.StartDate == "" {
		m.StartDate = time.Now().Format(DateLayout)
	}
	start, err := normalizeDate("start_date", m.StartDate)
	if err != nil {
		return err
	}
	m.StartDate = start

	if m.EndDate != nil && *m.EndDate != "" {
		end, err := normalizeDate("end_date", *m.EndDate)
		if err != nil {
			return err
		}
		if end < start {
			return invalid("end_date", "must not be before start_date")
		}
		m.EndDate = &end
	} else {
		m.EndDate = nil
	}

	var restaurant Restaurant
	if err := loadRef(tx, &restaurant, m.RestaurantID, "restaurant_id"); err != nil {
		return err
	}
	m.Slug = Slugify(m.Name, restaurant.Name)
	return nil
}
