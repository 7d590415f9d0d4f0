package models

import "gorm.io/gorm"

type Supplier struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" binding:"required,max=100"`
	ContactPerson string `gorm:"type:varchar(100);not null" json:"contact_person" binding:"required,max=100"`
	Phone         string `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Email         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"email" binding:"required,email,max=50"`
	Address       string `gorm:"type:text;not null" json:"address" binding:"required"`
	Slug          string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (s *Supplier) BeforeSave(tx *gorm.DB) error {
	s.Slug = Slugify(s.Name)
	return nil
}
