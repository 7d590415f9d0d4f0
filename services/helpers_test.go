package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB uses a file database so workers and the test can share it.
// Transactions take the write lock up front and wait on the busy timeout,
// so concurrent writers queue instead of failing with SQLITE_BUSY.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "restaurant.db") + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type seeded struct {
	Restaurant  models.Restaurant
	Table       models.Table
	Customer    models.Customer
	Reservation models.Reservation
	Order       models.Order
}

func seed(t *testing.T, db *gorm.DB, email *string) seeded {
	t.Helper()
	var s seeded

	s.Restaurant = models.Restaurant{Name: "Central", Address: "Main st 1", Phone: "+7000", Email: "central@example.com"}
	require.NoError(t, db.Create(&s.Restaurant).Error)

	s.Table = models.Table{RestaurantID: s.Restaurant.ID, TableNumber: 1, Capacity: 4, Status: models.TableReserved}
	require.NoError(t, db.Create(&s.Table).Error)

	first, last := "Anna", "Ivanova"
	s.Customer = models.Customer{FirstName: &first, LastName: &last, Email: email}
	require.NoError(t, db.Create(&s.Customer).Error)

	s.Reservation = models.Reservation{
		TableID:         s.Table.ID,
		CustomerID:      &s.Customer.ID,
		ReservationDate: "2026-11-01",
		Time:            "19:00",
		NumberOfGuests:  2,
	}
	require.NoError(t, db.Create(&s.Reservation).Error)

	s.Order = models.Order{RestaurantID: s.Restaurant.ID, TotalAmount: 1500}
	require.NoError(t, db.Create(&s.Order).Error)
	return s
}

func strPtr(s string) *string { return &s }

type notifyCall struct {
	ReservationID uint
	Action        models.NotificationAction
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (n *fakeNotifier) Notify(_ context.Context, reservationID uint, action models.NotificationAction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{ReservationID: reservationID, Action: action})
	return n.err
}

type event struct {
	Name string
	Data interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *fakeBroadcaster) Broadcast(name string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{Name: name, Data: data})
}

func (b *fakeBroadcaster) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name)
	}
	return out
}

type sentMail struct {
	To, Subject, Body string
}

// fakeMailer fails the first failures sends, or every send when failures < 0.
type fakeMailer struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failures < 0 || m.attempts <= m.failures {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) snapshot() (int, []sentMail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts, append([]sentMail(nil), m.sent...)
}
