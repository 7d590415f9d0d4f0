package models

import "gorm.io/gorm"

type Warehouse struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(50);not null" json:"name" binding:"required,max=50"`
	Address   string `gorm:"type:text;not null" json:"address" binding:"required"`
	ManagerID *uint  `gorm:"index" json:"manager_id"`
	Slug      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (w *Warehouse) BeforeSave(tx *gorm.DB) error {
	if w.ManagerID != nil {
		var manager Employee
		if err := loadRef(tx, &manager, *w.ManagerID, "manager_id"); err != nil {
			return err
		}
	}
	w.Slug = Slugify(w.Name)
	return nil
}
