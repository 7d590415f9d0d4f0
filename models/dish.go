package models

import "gorm.io/gorm"

type Dish struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null;index" json:"name" binding:"required,max=100"`
	Description *string `gorm:"type:text" json:"description"`
	Category    *string `gorm:"type:varchar(50)" json:"category" binding:"omitempty,max=50"`
	BasePrice   float64 `gorm:"type:decimal(10,2);not null" json:"base_price" binding:"gte=0"`
	Slug        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (d *Dish) BeforeSave(tx *gorm.DB) error {
	d.Slug = Slugify(d.Name)
	return nil
}

type MenuDetail struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	MenuID      uint    `gorm:"not null;uniqueIndex:idx_menu_detail_menu_dish" json:"menu_id" binding:"required"`
	Menu        *Menu   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DishID      uint    `gorm:"not null;uniqueIndex:idx_menu_detail_menu_dish" json:"dish_id" binding:"required"`
	Dish        *Dish   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price" binding:"gte=0"`
	IsAvailable *bool   `gorm:"not null;default:true" json:"is_available"`
}

func (md *MenuDetail) BeforeSave(tx *gorm.DB) error {
	if md.IsAvailable == nil {
		available := true
		md.IsAvailable = &available
	}
	var menu Menu
	if err := loadRef(tx, &menu, md.MenuID, "menu_id"); err != nil {
		return err
	}
	var dish Dish
	return loadRef(tx, &dish, md.DishID, "dish_id")
}

type Modifier struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	PriceChange float64 `gorm:"type:decimal(10,2);not null;default:0" json:"price_change" binding:"gte=0"`
	DishID      *uint   `gorm:"index" json:"dish_id"`
	Dish        *Dish   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Slug        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (m *Modifier) BeforeSave(tx *gorm.DB) error {
	dishName := "generic"
	if m.DishID != nil {
		var dish Dish
		if err := loadRef(tx, &dish, *m.DishID, "dish_id"); err != nil {
			return err
		}
		dishName = dish.Name
	}
	m.Slug = Slugify(m.Name, dishName)
	return nil
}
