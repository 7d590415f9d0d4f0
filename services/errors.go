package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type InvalidStatusError struct {
	Entity string
	Value  string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid %s status %q", e.Entity, e.Value)
}

type InvalidTransitionError struct {
	Entity string
	ID     uint
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %d cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// notFound converts gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else.
func notFound(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}
