package main

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi52ngg/restaurant-chain/config"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/services"
)

// TestShutdownDeliversMailFromInFlightRequests books during the HTTP drain and
// expects the mail to go out before shutdown returns.
func TestShutdownDeliversMailFromInFlightRequests(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBDSN: filepath.Join(t.TempDir(), "restaurant.db")}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	restaurant := models.Restaurant{Name: "Central", Address: "Main st 1", Phone: "+7000", Email: "central@example.com"}
	require.NoError(t, db.Create(&restaurant).Error)
	table := models.Table{RestaurantID: restaurant.ID, TableNumber: 1, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)
	first, last, email := "Anna", "Ivanova", "anna@example.com"
	customer := models.Customer{FirstName: &first, LastName: &last, Email: &email}
	require.NoError(t, db.Create(&customer).Error)
	reservation := models.Reservation{
		TableID: table.ID, CustomerID: &customer.ID,
		ReservationDate: "2026-11-01", Time: "19:00", NumberOfGuests: 2,
	}
	require.NoError(t, db.Create(&reservation).Error)

	mailer := &captureMailer{}
	dispatcher := services.NewNotificationDispatcher(db, services.NewChannelQueue(10), mailer, services.DefaultRetryPolicy(), 2)
	require.NoError(t, dispatcher.Start(context.Background()))

	entered := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		time.Sleep(200 * time.Millisecond)
		if err := dispatcher.Notify(r.Context(), reservation.ID, models.ActionConfirmed); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)

	codes := make(chan int, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/v1/reservations", "application/json", nil)
		if err != nil {
			codes <- 0
			return
		}
		resp.Body.Close()
		codes <- resp.StatusCode
	}()

	<-entered
	shutdown(srv, dispatcher, 5*time.Second)

	assert.Equal(t, http.StatusCreated, <-codes)
	bodies := mailer.bodies()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "is confirmed")

	var sent int64
	require.NoError(t, db.Model(&models.Notification{}).Where("status = ?", models.DeliverySent).Count(&sent).Error)
	assert.EqualValues(t, 1, sent)
}
