package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wasabi52ngg/restaurant-chain/config"
	"github.com/wasabi52ngg/restaurant-chain/hub"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/router"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

type notifyCall struct {
	ReservationID uint
	Action        models.NotificationAction
}

// recordingNotifier stands in for the dispatcher.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) Notify(ctx context.Context, reservationID uint, action models.NotificationAction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{ReservationID: reservationID, Action: action})
	return nil
}

func (n *recordingNotifier) Calls() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

type testEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Tokens   *utils.TokenManager
	Notifier *recordingNotifier
	Token    string
	UserID   uint
}

func testConfig(dsn string) *config.Config {
	return &config.Config{
		DBDriver:          config.DriverSQLite,
		DBDSN:             dsn,
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		JWTIssuer:         "restaurant-chain-test",
		CORSOrigin:        "*",
		RateLimit:         10000,
		RateInterval:      time.Second,
		AuthRatePerMinute: 1000,
		NotifyQueue:       config.QueueMemory,
		NotifyWorkers:     1,
		PageSize:          20,
		MaxPageSize:       100,
	}
}

// setupTestDB opens a private in-memory sqlite database with every model migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := testConfig(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := testConfig("")
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	notifier := &recordingNotifier{}
	statusHub := hub.NewHub()

	r := router.SetupRouter(router.Dependencies{
		DB:       db,
		Config:   cfg,
		Tokens:   tokens,
		Status:   services.NewStatusService(db, notifier, statusHub),
		Notifier: notifier,
		Hub:      statusHub,
	})

	user := models.User{Username: "staff", Password: "x", Role: models.RoleStaff}
	require.NoError(t, db.Create(&user).Error)
	token, err := tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	return &testEnv{DB: db, Router: r, Tokens: tokens, Notifier: notifier, Token: token, UserID: user.ID}
}

// do sends body as JSON. An empty token sends the request anonymously.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type fixtures struct {
	Restaurant  models.Restaurant
	Table       models.Table
	Customer    models.Customer
	Reservation models.Reservation
	Order       models.Order
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	var f fixtures

	f.Restaurant = models.Restaurant{Name: "Central", Address: "Main st 1", Phone: "+7000", Email: "central@example.com"}
	require.NoError(t, db.Create(&f.Restaurant).Error)

	f.Table = models.Table{RestaurantID: f.Restaurant.ID, TableNumber: 1, Capacity: 4, Status: models.TableReserved}
	require.NoError(t, db.Create(&f.Table).Error)

	first, last, email := "Anna", "Ivanova", "anna@example.com"
	f.Customer = models.Customer{FirstName: &first, LastName: &last, Email: &email}
	require.NoError(t, db.Create(&f.Customer).Error)

	f.Reservation = models.Reservation{
		TableID:         f.Table.ID,
		CustomerID:      &f.Customer.ID,
		ReservationDate: "2026-11-01",
		Time:            "19:00",
		NumberOfGuests:  2,
	}
	require.NoError(t, db.Create(&f.Reservation).Error)

	f.Order = models.Order{RestaurantID: f.Restaurant.ID, CustomerID: &f.Customer.ID, TotalAmount: 1500}
	require.NoError(t, db.Create(&f.Order).Error)

	return f
}

func (e *testEnv) doWithHeader(t *testing.T, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", authorization)

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
