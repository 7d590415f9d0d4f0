package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newRestaurant(t *testing.T, db *gorm.DB, name string) Restaurant {
	t.Helper()
	r := Restaurant{Name: name, Address: "addr", Phone: "+7000", Email: Slugify(name) + "@example.com"}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "central-1", Slugify("Central", "1"))
	assert.Equal(t, "ivan-petrov", Slugify("  Иван ", "", "Петров"))
	assert.Equal(t, "cafe-pushkin", Slugify("Café Pushkin!"))
	assert.Equal(t, "", Slugify("", " "))
}

func TestSlugsFollowNames(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Ромашка")
	assert.Equal(t, "romashka", r.Slug)

	r.Name = "Blinnaya"
	require.NoError(t, db.Save(&r).Error)
	assert.Equal(t, "blinnaya", r.Slug)

	table := Table{RestaurantID: r.ID, TableNumber: 12, Capacity: 2}
	require.NoError(t, db.Create(&table).Error)
	assert.Equal(t, "blinnaya-12", table.Slug)
	assert.Equal(t, TableFree, table.Status)
}

func TestCustomerSlugFallback(t *testing.T) {
	db := setupTestDB(t)

	anon := Customer{}
	require.NoError(t, db.Create(&anon).Error)
	assert.Regexp(t, `^customer-[0-9a-f]{8}$`, anon.Slug)

	// the fallback slug survives later saves
	slug := anon.Slug
	phone := "+7999"
	anon.Phone = &phone
	require.NoError(t, db.Save(&anon).Error)
	assert.Equal(t, slug, anon.Slug)

	email := "guest@example.com"
	named := Customer{Email: &email}
	require.NoError(t, db.Create(&named).Error)
	assert.True(t, strings.HasPrefix(named.Slug, "guest"), named.Slug)
	assert.Contains(t, named.Slug, "example")

	blank := ""
	other := Customer{Email: &blank}
	require.NoError(t, db.Create(&other).Error)
	assert.Nil(t, other.Email)
	assert.False(t, other.HasEmail())
}

func TestReservationConflict(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Central")
	table := Table{RestaurantID: r.ID, TableNumber: 1, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)

	first := Reservation{TableID: table.ID, ReservationDate: "2026-11-01", Time: "19:00", NumberOfGuests: 2}
	require.NoError(t, db.Create(&first).Error)
	assert.Equal(t, "19:00:00", first.Time)
	assert.Equal(t, ReservationConfirmed, first.Status)
	assert.True(t, strings.HasPrefix(first.Slug, "central-1-2026-11-01-19-00-00-"))

	clash := Reservation{TableID: table.ID, ReservationDate: "2026-11-01", Time: "19:00:00", NumberOfGuests: 3}
	err := db.Create(&clash).Error
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	// saving the same reservation again does not conflict with itself
	first.NumberOfGuests = 3
	require.NoError(t, db.Save(&first).Error)

	// a cancelled slot can be booked again
	require.NoError(t, db.Model(&Reservation{}).Where("id = ?", first.ID).UpdateColumn("status", ReservationCancelled).Error)
	require.NoError(t, db.Create(&clash).Error)
	assert.NotEqual(t, first.Slug, clash.Slug)
}

func TestReservationValidation(t *testing.T) {
	db := setupTestDB(t)

	err := db.Create(&Reservation{TableID: 99, ReservationDate: "2026-11-01", Time: "19:00", NumberOfGuests: 2}).Error
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "table_id", validation.Field)

	err = db.Create(&Reservation{TableID: 1, ReservationDate: "01.11.2026", Time: "19:00", NumberOfGuests: 2}).Error
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "reservation_date", validation.Field)
}

func TestEmployeeRules(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Central")
	w := Warehouse{Name: "Main Store", Address: "Dock 1"}
	require.NoError(t, db.Create(&w).Error)

	both := Employee{FirstName: "Ivan", LastName: "Petrov", Role: "Cook", Salary: 30000, RestaurantID: &r.ID, WarehouseID: &w.ID}
	var validation *ValidationError
	require.ErrorAs(t, db.Create(&both).Error, &validation)

	cheap := Employee{FirstName: "Ivan", LastName: "Petrov", Role: "Cook", Salary: 23999.99}
	require.ErrorAs(t, db.Create(&cheap).Error, &validation)
	assert.Equal(t, "salary", validation.Field)

	manager := Employee{FirstName: "Ivan", LastName: "Petrov", Role: "Manager", Salary: MinimumSalary, RestaurantID: &r.ID}
	require.NoError(t, db.Create(&manager).Error)
	assert.Equal(t, "ivan-petrov-central", manager.Slug)
	assert.Len(t, manager.HireDate, len(DateLayout))

	r.ManagerID = &manager.ID
	require.NoError(t, db.Save(&r).Error)
	require.NoError(t, db.Delete(&manager).Error)

	var reloaded Restaurant
	require.NoError(t, db.First(&reloaded, r.ID).Error)
	assert.Nil(t, reloaded.ManagerID)
}

func TestMenuDateRange(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Central")

	end := "2026-01-01"
	menu := Menu{RestaurantID: r.ID, Name: "Winter", StartDate: "2026-02-01", EndDate: &end}
	var validation *ValidationError
	require.ErrorAs(t, db.Create(&menu).Error, &validation)
	assert.Equal(t, "end_date", validation.Field)

	end = "2026-03-01"
	require.NoError(t, db.Create(&menu).Error)
	assert.Equal(t, "winter-central", menu.Slug)

	detail := MenuDetail{MenuID: menu.ID, DishID: 42, Price: 10}
	require.ErrorAs(t, db.Create(&detail).Error, &validation)
}

func TestOrderDetailsCascade(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Central")
	dish := Dish{Name: "Borscht", BasePrice: 350}
	require.NoError(t, db.Create(&dish).Error)

	order := Order{RestaurantID: r.ID, TotalAmount: 700}
	require.NoError(t, db.Create(&order).Error)
	assert.Equal(t, OrderPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Slug, "order-central-"))

	require.NoError(t, db.Create(&OrderDetail{OrderID: order.ID, DishID: dish.ID, Quantity: 2, Price: 350}).Error)
	require.NoError(t, db.Delete(&order).Error)

	var count int64
	require.NoError(t, db.Model(&OrderDetail{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	r := newRestaurant(t, db, "Central")
	table := Table{RestaurantID: r.ID, TableNumber: 1, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)

	first, last := "Anna", "Ivanova"
	customer := Customer{FirstName: &first, LastName: &last}
	require.NoError(t, db.Create(&customer).Error)

	reservation := Reservation{TableID: table.ID, CustomerID: &customer.ID, ReservationDate: "2026-11-01", Time: "19:00", NumberOfGuests: 2}
	require.NoError(t, db.Create(&reservation).Error)
	order := Order{RestaurantID: r.ID, CustomerID: &customer.ID, TotalAmount: 700}
	require.NoError(t, db.Create(&order).Error)

	// customer: SET NULL on orders and reservations
	require.NoError(t, db.Delete(&customer).Error)
	var gotReservation Reservation
	require.NoError(t, db.First(&gotReservation, reservation.ID).Error)
	assert.Nil(t, gotReservation.CustomerID)
	var gotOrder Order
	require.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Nil(t, gotOrder.CustomerID)

	var count int64
	require.NoError(t, db.Delete(&table).Error)
	require.NoError(t, db.Model(&Reservation{}).Count(&count).Error)
	assert.Zero(t, count, "reservations of a deleted table")

	second := Table{RestaurantID: r.ID, TableNumber: 2, Capacity: 2}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Delete(&r).Error)
	require.NoError(t, db.Model(&Table{}).Count(&count).Error)
	assert.Zero(t, count, "tables of a deleted restaurant")
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count, "orders of a deleted restaurant")
}

func TestStatusEnumsRejectUnknownValues(t *testing.T) {
	var table Table
	assert.Error(t, json.Unmarshal([]byte(`{"status":"BROKEN"}`), &table))
	require.NoError(t, json.Unmarshal([]byte(`{"status":"OCCUPIED"}`), &table))
	assert.Equal(t, TableOccupied, table.Status)

	var order Order
	assert.Error(t, json.Unmarshal([]byte(`{"status":"pending"}`), &order))

	var product Product
	assert.Error(t, json.Unmarshal([]byte(`{"unit":"TON"}`), &product))

	_, err := ParsePaymentMethod("CRYPTO")
	assert.Error(t, err)
	_, err = ParseReservationStatus("COMPLETED")
	assert.NoError(t, err)

	var action NotificationAction
	require.NoError(t, json.Unmarshal([]byte(`"rescheduled"`), &action))
	assert.False(t, action.Valid())
}
