package models

import (
	"time"

	"gorm.io/gorm"
)

type Inventory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	WarehouseID uint       `gorm:"not null;uniqueIndex:idx_inventory_warehouse_product" json:"warehouse_id" binding:"required"`
	Warehouse   *Warehouse `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID   uint       `gorm:"not null;uniqueIndex:idx_inventory_warehouse_product" json:"product_id" binding:"required"`
	Product     *Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Quantity    float64    `gorm:"type:decimal(10,2);not null" json:"quantity" binding:"gte=0"`
	LastUpdated time.Time  `gorm:"autoUpdateTime" json:"last_updated"`
	Slug        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) BeforeSave(tx *gorm.DB) error {
	var warehouse Warehouse
	if err := loadRef(tx, &warehouse, i.WarehouseID, "warehouse_id"); err != nil {
		return err
	}
	var product Product
	if err := loadRef(tx, &product, i.ProductID, "product_id"); err != nil {
		return err
	}
	i.Slug = Slugify(product.Name, warehouse.Name)
	return nil
}
