package models

import (
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FirstName    string      `gorm:"type:varchar(50);not null;index:idx_employee_name" json:"first_name" binding:"required,max=50"`
	LastName     string      `gorm:"type:varchar(50);not null;index:idx_employee_name" json:"last_name" binding:"required,max=50"`
	Role         string      `gorm:"type:varchar(50);not null" json:"role" binding:"required,max=50"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	WarehouseID  *uint       `gorm:"index" json:"warehouse_id"`
	Warehouse    *Warehouse  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	HireDate     string      `gorm:"type:varchar(10);not null" json:"hire_date"`
	Salary       float64     `gorm:"type:decimal(10,2);not null" json:"salary" binding:"required"`
	Slug         string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (e *Employee) BeforeSave(tx *gorm.DB) error {
	if e.RestaurantID != nil && e.WarehouseID != nil {
		return invalid("", "an employee cannot be assigned to both a restaurant and a warehouse")
	}
	if e.Salary < MinimumSalary {
		return invalid("salary", "must be at least %.2f", MinimumSalary)
	}

	if e.HireDate == "" {
		e.HireDate = time.Now().Format(DateLayout)
	}
	hireDate, err := normalizeDate("hire_date", e.HireDate)
	if err != nil {
		return err
	}
	e.HireDate = hireDate

	switch {
	case e.RestaurantID != nil:
		var restaurant Restaurant
		if err := loadRef(tx, &restaurant, *e.RestaurantID, "restaurant_id"); err != nil {
			return err
		}
		e.Slug = Slugify(e.FirstName, e.LastName, restaurant.Name)
	case e.WarehouseID != nil:
		var warehouse Warehouse
		if err := loadRef(tx, &warehouse, *e.WarehouseID, "warehouse_id"); err != nil {
			return err
		}
		e.Slug = Slugify(e.FirstName, e.LastName, warehouse.Name)
	default:
		e.Slug = Slugify(e.FirstName, e.LastName)
	}
	return nil
}

// AfterDelete clears the manager reference of anything this employee managed.
func (e *Employee) AfterDelete(tx *gorm.DB) error {
	if err := tx.Model(&Restaurant{}).Where("manager_id = ?", e.ID).UpdateColumn("manager_id", nil).Error; err != nil {
		return err
	}
	return tx.Model(&Warehouse{}).Where("manager_id = ?", e.ID).UpdateColumn("manager_id", nil).Error
}
