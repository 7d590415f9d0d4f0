package services

import (
	"context"
	"fmt"

	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
)

const (
	EventTableStatus       = "table_status"
	EventReservationStatus = "reservation_status"
	EventOrderStatus       = "order_status"
)

// Notifier hands a reservation mail to the dispatcher without waiting for it.
type Notifier interface {
	Notify(ctx context.Context, reservationID uint, action models.NotificationAction) error
}

// Broadcaster pushes status events to connected floor screens.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// StatusService owns every status transition of tables, reservations and orders.
type StatusService struct {
	db       *gorm.DB
	notifier Notifier
	events   Broadcaster
}

func NewStatusService(db *gorm.DB, notifier Notifier, events Broadcaster) *StatusService {
	return &StatusService{db: db, notifier: notifier, events: events}
}

type actorKey struct{}

// WithActor attaches the id of the user performing a transition to ctx so it
// ends up in the audit trail.
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) *uint {
	if id, ok := ctx.Value(actorKey{}).(uint); ok && id != 0 {
		return &id
	}
	return nil
}

// SetTableStatus overwrites the table status with any valid value. Reachability
// from the current status is not checked.
func (s *StatusService) SetTableStatus(ctx context.Context, tableID uint, raw string) (models.TableStatus, error) {
	status, err := models.ParseTableStatus(raw)
	if err != nil {
		return "", &InvalidStatusError{Entity: models.EntityTable, Value: raw}
	}

	var table models.Table
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			return notFound(models.EntityTable, tableID, err)
		}
		from := table.Status
		if err := tx.Model(&table).UpdateColumn("status", status).Error; err != nil {
			return fmt.Errorf("update table %d status: %w", tableID, err)
		}
		table.Status = status
		return recordChange(ctx, tx, models.EntityTable, tableID, string(from), string(status))
	})
	if err != nil {
		return "", err
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", tableID, status)
	s.broadcast(EventTableStatus, table)
	return status, nil
}

// CancelReservation moves a CONFIRMED reservation to CANCELLED and frees its
// table in one transaction, then queues the cancellation mail.
func (s *StatusService) CancelReservation(ctx context.Context, reservationID uint) (models.ReservationStatus, error) {
	var (
		reservation models.Reservation
		table       models.Table
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, reservationID).Error; err != nil {
			return notFound(models.EntityReservation, reservationID, err)
		}

		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservationID, models.ReservationConfirmed).
			UpdateColumn("status", models.ReservationCancelled)
		if res.Error != nil {
			return fmt.Errorf("cancel reservation %d: %w", reservationID, res.Error)
		}
		if res.RowsAffected == 0 {
			return &InvalidTransitionError{
				Entity: models.EntityReservation,
				ID:     reservationID,
				From:   string(reservation.Status),
				To:     string(models.ReservationCancelled),
			}
		}
		if err := recordChange(ctx, tx, models.EntityReservation, reservationID,
			string(reservation.Status), string(models.ReservationCancelled)); err != nil {
			return err
		}
		reservation.Status = models.ReservationCancelled

		if err := tx.First(&table, reservation.TableID).Error; err != nil {
			return notFound(models.EntityTable, reservation.TableID, err)
		}
		from := table.Status
		if err := tx.Model(&table).UpdateColumn("status", models.TableFree).Error; err != nil {
			return fmt.Errorf("free table %d: %w", table.ID, err)
		}
		table.Status = models.TableFree
		return recordChange(ctx, tx, models.EntityTable, table.ID, string(from), string(models.TableFree))
	})
	if err != nil {
		return "", err
	}

	utils.InfoLogger.Printf("Reservation %d cancelled, table %d freed", reservationID, table.ID)
	s.broadcast(EventReservationStatus, reservation)
	s.broadcast(EventTableStatus, table)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, reservationID, models.ActionCancelled); err != nil {
			utils.ErrorLogger.Printf("Failed to queue cancellation notice for reservation %d: %v", reservationID, err)
		}
	}
	return reservation.Status, nil
}

// CompleteOrder moves a PENDING order to COMPLETED. The total is untouched.
func (s *StatusService) CompleteOrder(ctx context.Context, orderID uint) (models.OrderStatus, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(models.EntityOrder, orderID, err)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderPending).
			UpdateColumn("status", models.OrderCompleted)
		if res.Error != nil {
			return fmt.Errorf("complete order %d: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return &InvalidTransitionError{
				Entity: models.EntityOrder,
				ID:     orderID,
				From:   string(order.Status),
				To:     string(models.OrderCompleted),
			}
		}
		from := order.Status
		order.Status = models.OrderCompleted
		return recordChange(ctx, tx, models.EntityOrder, orderID, string(from), string(models.OrderCompleted))
	})
	if err != nil {
		return "", err
	}

	utils.InfoLogger.Printf("Order %d completed", orderID)
	s.broadcast(EventOrderStatus, order)
	return order.Status, nil
}

func (s *StatusService) broadcast(event string, data interface{}) {
	if s.events != nil {
		s.events.Broadcast(event, data)
	}
}

func recordChange(ctx context.Context, tx *gorm.DB, entity string, id uint, from, to string) error {
	change := models.StatusChange{
		Entity:     entity,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		UserID:     actorFrom(ctx),
	}
	if err := tx.Create(&change).Error; err != nil {
		return fmt.Errorf("record %s %d status change: %w", entity, id, err)
	}
	return nil
}
