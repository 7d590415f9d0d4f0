package models

import "gorm.io/gorm"

type Restaurant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(50);not null;index" json:"name" binding:"required,max=50"`
	Address   string `gorm:"type:text;not null" json:"address" binding:"required"`
	Phone     string `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Email     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"email" binding:"required,email,max=50"`
	ManagerID *uint  `gorm:"index" json:"manager_id"`
	Slug      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (r *Restaurant) BeforeSave(tx *gorm.DB) error {
	if r.ManagerID != nil {
		var manager Employee
		if err := loadRef(tx, &manager, *r.ManagerID, "manager_id"); err != nil {
			return err
		}
	}
	r.Slug = Slugify(r.Name)
	return nil
}
