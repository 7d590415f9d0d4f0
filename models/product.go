package models

import "gorm.io/gorm"

type Product struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" binding:"required,max=100"`
	Unit       ProductUnit `gorm:"type:varchar(20);not null" json:"unit" binding:"required"`
	SupplierID *uint       `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Slug       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.SupplierID != nil {
		var supplier Supplier
		if err := loadRef(tx, &supplier, *p.SupplierID, "supplier_id"); err != nil {
			return err
		}
	}
	p.Slug = Slugify(p.Name)
	return nil
}
