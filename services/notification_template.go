package services

import (
	"errors"
	"fmt"

	"github.com/wasabi52ngg/restaurant-chain/models"
)

// ErrUnknownAction marks a message that no retry can fix.
var ErrUnknownAction = errors.New("unknown notification action")

// ComposeReservationMail renders the subject and body for a reservation mail.
// The reservation must have Customer and Table.Restaurant loaded.
func ComposeReservationMail(r *models.Reservation, action models.NotificationAction) (string, string, error) {
	if r.Table == nil || r.Table.Restaurant == nil {
		return "", "", fmt.Errorf("reservation %d: table and restaurant must be loaded", r.ID)
	}

	subject := fmt.Sprintf("Reservation status #%d", r.ID)
	name := "guest"
	if r.Customer != nil && r.Customer.FullName() != "" {
		name = r.Customer.FullName()
	}
	greeting := fmt.Sprintf("Dear %s,\n\n", name)

	switch action {
	case models.ActionConfirmed:
		return subject, greeting + fmt.Sprintf(
			"Your reservation of table #%d at %s on %s at %s is confirmed.\n\n"+
				"Number of guests: %d\n"+
				"Thank you for choosing our restaurant!",
			r.Table.TableNumber, r.Table.Restaurant.Name, r.ReservationDate, r.Time, r.NumberOfGuests), nil
	case models.ActionCancelled:
		return subject, greeting + fmt.Sprintf(
			"Your reservation of table #%d at %s on %s at %s has been cancelled.\n\n"+
				"Number of guests: %d\n"+
				"If you have any questions, please contact us.",
			r.Table.TableNumber, r.Table.Restaurant.Name, r.ReservationDate, r.Time, r.NumberOfGuests), nil
	default:
		return "", "", fmt.Errorf("%w %q", ErrUnknownAction, action)
	}
}
