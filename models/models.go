package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	MinimumSalary = 24000.0
)

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Warehouse{},
		&Employee{},
		&Table{},
		&Supplier{},
		&Product{},
		&Inventory{},
		&Menu{},
		&Dish{},
		&MenuDetail{},
		&Modifier{},
		&Customer{},
		&Reservation{},
		&Order{},
		&OrderDetail{},
		&Payment{},
		&StatusChange{},
		&Notification{},
	}
}

// loadRef fetches a referenced row inside a hook, reporting a missing row
// against the foreign key field.
func loadRef(tx *gorm.DB, dst interface{}, id uint, field string) error {
	if id == 0 {
		return invalid(field, "this field is required")
	}
	if err := tx.First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(field, "object with id %d does not exist", id)
		}
		return err
	}
	return nil
}

func normalizeDate(field, value string) (string, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", invalid(field, "date must be in YYYY-MM-DD format")
	}
	return d.Format(DateLayout), nil
}

func normalizeTime(field, value string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", invalid(field, "time must be in HH:MM[:SS] format")
}
