package models

import (
	"strings"

	"gorm.io/gorm"
)

type Customer struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	FirstName *string `gorm:"type:varchar(50)" json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `gorm:"type:varchar(50)" json:"last_name" binding:"omitempty,max=50"`
	Email     *string `gorm:"type:varchar(50);uniqueIndex" json:"email" binding:"omitempty,email,max=50"`
	Phone     *string `gorm:"type:varchar(20)" json:"phone" binding:"omitempty,max=20"`
	Address   *string `gorm:"type:text" json:"address"`
	Slug      string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
}

// HasEmail reports whether the customer can be notified by mail.
func (c *Customer) HasEmail() bool {
	return c != nil && c.Email != nil && strings.TrimSpace(*c.Email) != ""
}

func (c *Customer) BeforeSave(tx *gorm.DB) error {
	// an empty email would collide on the unique index
	if c.Email != nil && strings.TrimSpace(*c.Email) == "" {
		c.Email = nil
	}

	switch {
	case deref(c.FirstName) != "" && deref(c.LastName) != "":
		c.Slug = Slugify(*c.FirstName, *c.LastName)
	case c.Email != nil:
		c.Slug = Slugify(*c.Email)
	case c.Slug == "" || !strings.HasPrefix(c.Slug, "customer-"):
		c.Slug = Slugify("customer", shortID())
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
