package models

import (
	"strconv"

	"gorm.io/gorm"
)

type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	TableID         uint              `gorm:"not null;index:idx_reservation_table_date" json:"table_id" binding:"required"`
	Table           *Table            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CustomerID      *uint             `gorm:"index" json:"customer_id"`
	Customer        *Customer         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	ReservationDate string            `gorm:"type:varchar(10);not null;index:idx_reservation_table_date" json:"reservation_date" binding:"required"`
	Time            string            `gorm:"type:varchar(8);not null" json:"time" binding:"required"`
	NumberOfGuests  int               `gorm:"not null" json:"number_of_guests" binding:"required,min=1"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	Slug            string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = ReservationConfirmed
	}

	var err error
	if r.ReservationDate, err = normalizeDate("reservation_date", r.ReservationDate); err != nil {
		return err
	}
	if r.Time, err = normalizeTime("time", r.Time); err != nil {
		return err
	}

	var table Table
	if err := loadRef(tx, &table, r.TableID, "table_id"); err != nil {
		return err
	}
	if r.CustomerID != nil {
		var customer Customer
		if err := loadRef(tx, &customer, *r.CustomerID, "customer_id"); err != nil {
			return err
		}
	}

	if r.Status == ReservationConfirmed {
		conflict, err := r.hasConflict(tx)
		if err != nil {
			return err
		}
		if conflict {
			return invalid("", "table is already reserved for this time")
		}
	}

	if r.Slug == "" {
		var restaurant Restaurant
		if err := loadRef(tx, &restaurant, table.RestaurantID, "restaurant_id"); err != nil {
			return err
		}
		r.Slug = Slugify(restaurant.Name, strconv.Itoa(table.TableNumber), r.ReservationDate, r.Time, shortID())
	}
	return nil
}

// hasConflict looks for another confirmed reservation on the same table slot.
// It is a read before write, not a constraint.
func (r *Reservation) hasConflict(tx *gorm.DB) (bool, error) {
	var count int64
	q := tx.Model(&Reservation{}).
		Where("table_id = ? AND reservation_date = ? AND time = ? AND status = ?",
			r.TableID, r.ReservationDate, r.Time, ReservationConfirmed)
	if r.ID != 0 {
		q = q.Where("id <> ?", r.ID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
