package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/config"
	"github.com/wasabi52ngg/restaurant-chain/controllers"
	"github.com/wasabi52ngg/restaurant-chain/hub"
	"github.com/wasabi52ngg/restaurant-chain/middlewares"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Tokens   *utils.TokenManager
	Status   *services.StatusService
	Notifier services.Notifier
	Hub      *hub.Hub
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	rateLimiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateInterval)
	authLimiter := middlewares.NewStrictRateLimiter(cfg.AuthRatePerMinute)

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(rateLimiter.RateLimit())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	userController := controllers.NewUserController(deps.DB, deps.Tokens)
	auth := r.Group("/auth")
	{
		auth.POST("/users/", authLimiter.Limit(), userController.Register)
		auth.POST("/token/login/", authLimiter.Limit(), userController.Login)

		authed := auth.Group("", middlewares.AuthMiddleware(deps.Tokens))
		authed.POST("/token/logout/", userController.Logout)
		authed.GET("/users/me/", userController.Me)
		authed.GET("/users/", middlewares.RequireRole(models.RoleAdmin), userController.GetAllUsers)
	}

	streamController := controllers.NewStatusStreamController(deps.Hub, cfg.CORSOrigin)
	r.GET("/ws/status", middlewares.WebSocketAuthMiddleware(deps.Tokens), streamController.Stream)

	pages := controllers.Pagination{PageSize: cfg.PageSize, MaxPageSize: cfg.MaxPageSize}
	api := r.Group("/api/v1")
	readOnly := api.Group("", middlewares.ReadOnlyOrAuth(deps.Tokens))
	authed := api.Group("", middlewares.AuthMiddleware(deps.Tokens))

	registerCatalog(readOnly, deps.DB, pages)
	registerOperations(authed, deps, pages)

	return r
}

// registerCatalog mounts the resources anyone may read.
func registerCatalog(g *gin.RouterGroup, db *gorm.DB, pages controllers.Pagination) {
	controllers.NewResourceController(db, "restaurant", pages, controllers.ResourceOptions[models.Restaurant]{
		Filters:  []controllers.Filter{{Param: "name", Column: "name"}, {Param: "address", Column: "address"}},
		Search:   []controllers.SearchField{{Column: "name"}, {Column: "address"}},
		Ordering: []string{"name", "id"},
	}).Register(g, "restaurants")

	controllers.NewResourceController(db, "table", pages, controllers.ResourceOptions[models.Table]{
		Filters: []controllers.Filter{
			{Param: "restaurant_id", Column: "restaurant_id", Kind: controllers.FilterNumber},
			{Param: "restaurant_slug", Column: "restaurant_id", Table: "restaurants"},
			{Param: "status", Column: "status"},
			{Param: "capacity", Column: "capacity", Kind: controllers.FilterNumber, Lookups: true},
		},
		Search:   []controllers.SearchField{{Column: "CAST(table_number AS CHAR(10))"}},
		Ordering: []string{"table_number", "capacity"},
	}).Register(g, "tables")

	controllers.NewResourceController(db, "warehouse", pages, controllers.ResourceOptions[models.Warehouse]{
		Filters:  []controllers.Filter{{Param: "name", Column: "name"}, {Param: "address", Column: "address"}},
		Search:   []controllers.SearchField{{Column: "name"}, {Column: "address"}},
		Ordering: []string{"name", "id"},
	}).Register(g, "warehouses")

	controllers.NewResourceController(db, "supplier", pages, controllers.ResourceOptions[models.Supplier]{
		Filters:  []controllers.Filter{{Param: "name", Column: "name"}, {Param: "email", Column: "email"}},
		Search:   []controllers.SearchField{{Column: "name"}, {Column: "contact_person"}},
		Ordering: []string{"name", "id"},
	}).Register(g, "suppliers")

	controllers.NewResourceController(db, "product", pages, controllers.ResourceOptions[models.Product]{
		Filters: []controllers.Filter{
			{Param: "name", Column: "name"},
			{Param: "unit", Column: "unit"},
			{Param: "supplier_slug", Column: "supplier_id", Table: "suppliers"},
		},
		Search:   []controllers.SearchField{{Column: "name"}},
		Ordering: []string{"name", "id"},
	}).Register(g, "products")

	controllers.NewResourceController(db, "menu", pages, controllers.ResourceOptions[models.Menu]{
		Filters: []controllers.Filter{
			{Param: "restaurant_slug", Column: "restaurant_id", Table: "restaurants"},
			{Param: "name", Column: "name"},
			{Param: "start_date", Column: "start_date"},
			{Param: "end_date", Column: "end_date"},
		},
		Search:   []controllers.SearchField{{Column: "name"}, {Column: "description"}},
		Ordering: []string{"name", "start_date"},
	}).Register(g, "menus")

	controllers.NewResourceController(db, "dish", pages, controllers.ResourceOptions[models.Dish]{
		Filters: []controllers.Filter{
			{Param: "category", Column: "category"},
			{Param: "base_price", Column: "base_price", Kind: controllers.FilterNumber, Lookups: true},
		},
		Search:   []controllers.SearchField{{Column: "name"}, {Column: "description"}, {Column: "category"}},
		Ordering: []string{"name", "base_price"},
	}).Register(g, "dishes")

	controllers.NewResourceController(db, "menu detail", pages, controllers.ResourceOptions[models.MenuDetail]{
		Filters: []controllers.Filter{
			{Param: "menu_slug", Column: "menu_id", Table: "menus"},
			{Param: "dish_slug", Column: "dish_id", Table: "dishes"},
			{Param: "is_available", Column: "is_available", Kind: controllers.FilterBool},
		},
		Search:   []controllers.SearchField{{Column: "name", FK: "dish_id", Table: "dishes"}},
		Ordering: []string{"price", "is_available"},
	}).Register(g, "menu-details")

	controllers.NewResourceController(db, "modifier", pages, controllers.ResourceOptions[models.Modifier]{
		Filters:  []controllers.Filter{{Param: "dish_slug", Column: "dish_id", Table: "dishes"}},
		Search:   []controllers.SearchField{{Column: "name"}},
		Ordering: []string{"name", "price_change"},
	}).Register(g, "modifiers")
}

// registerOperations mounts staff-only resources and the status actions.
func registerOperations(g *gin.RouterGroup, deps Dependencies, pages controllers.Pagination) {
	db := deps.DB

	controllers.NewResourceController(db, "employee", pages, controllers.ResourceOptions[models.Employee]{
		Filters: []controllers.Filter{
			{Param: "restaurant_slug", Column: "restaurant_id", Table: "restaurants"},
			{Param: "warehouse_slug", Column: "warehouse_id", Table: "warehouses"},
			{Param: "role", Column: "role"},
			{Param: "salary", Column: "salary", Kind: controllers.FilterNumber, Lookups: true},
		},
		Search:   []controllers.SearchField{{Column: "first_name"}, {Column: "last_name"}, {Column: "role"}},
		Ordering: []string{"first_name", "last_name", "hire_date"},
	}).Register(g, "employees")

	controllers.NewResourceController(db, "inventory", pages, controllers.ResourceOptions[models.Inventory]{
		Filters: []controllers.Filter{
			{Param: "warehouse_slug", Column: "warehouse_id", Table: "warehouses"},
			{Param: "product_slug", Column: "product_id", Table: "products"},
		},
		Search:   []controllers.SearchField{{Column: "name", FK: "product_id", Table: "products"}},
		Ordering: []string{"quantity", "last_updated"},
	}).Register(g, "inventory")

	controllers.NewResourceController(db, "customer", pages, controllers.ResourceOptions[models.Customer]{
		Filters:  []controllers.Filter{{Param: "email", Column: "email"}, {Param: "phone", Column: "phone"}},
		Search:   []controllers.SearchField{{Column: "first_name"}, {Column: "last_name"}, {Column: "email"}},
		Ordering: []string{"first_name", "last_name"},
	}).Register(g, "customers")

	customerName := []controllers.SearchField{
		{Column: "first_name", FK: "customer_id", Table: "customers"},
		{Column: "last_name", FK: "customer_id", Table: "customers"},
	}

	reservationController := controllers.NewReservationController(deps.Status, deps.Notifier)
	controllers.NewResourceController(db, "reservation", pages, controllers.ResourceOptions[models.Reservation]{
		Filters: []controllers.Filter{
			{Param: "table_slug", Column: "table_id", Table: "tables"},
			{Param: "customer_slug", Column: "customer_id", Table: "customers"},
			{Param: "reservation_date", Column: "reservation_date"},
			{Param: "status", Column: "status"},
		},
		Search:      customerName,
		Ordering:    []string{"reservation_date", "time"},
		AfterCreate: reservationController.Created,
	}).Register(g, "reservations")
	g.POST("/reservations/:id/cancel", reservationController.Cancel)

	orderController := controllers.NewOrderController(deps.Status)
	controllers.NewResourceController(db, "order", pages, controllers.ResourceOptions[models.Order]{
		Filters: []controllers.Filter{
			{Param: "restaurant_slug", Column: "restaurant_id", Table: "restaurants"},
			{Param: "customer_slug", Column: "customer_id", Table: "customers"},
			{Param: "status", Column: "status"},
			{Param: "order_date", Column: "order_date", Kind: controllers.FilterDate},
		},
		Search:   customerName,
		Ordering: []string{"order_date", "total_amount"},
		Preloads: []string{"Details"},
	}).Register(g, "orders")
	g.POST("/orders/:id/complete", orderController.Complete)

	controllers.NewResourceController(db, "order detail", pages, controllers.ResourceOptions[models.OrderDetail]{
		Filters: []controllers.Filter{
			{Param: "order_slug", Column: "order_id", Table: "orders"},
			{Param: "dish_slug", Column: "dish_id", Table: "dishes"},
		},
		Search:   []controllers.SearchField{{Column: "name", FK: "dish_id", Table: "dishes"}},
		Ordering: []string{"quantity", "price"},
	}).Register(g, "order-details")

	controllers.NewResourceController(db, "payment", pages, controllers.ResourceOptions[models.Payment]{
		Filters: []controllers.Filter{
			{Param: "order_slug", Column: "order_id", Table: "orders"},
			{Param: "payment_method", Column: "payment_method"},
			{Param: "payment_time", Column: "payment_time", Kind: controllers.FilterDate},
		},
		Search:   []controllers.SearchField{{Column: "transaction_id"}},
		Ordering: []string{"payment_time", "amount"},
	}).Register(g, "payments")

	tableController := controllers.NewTableController(deps.Status)
	g.POST("/tables/:id/set-status", tableController.SetStatus)
	g.POST("/tables/:id/set_status", tableController.SetStatus)

	controllers.NewResourceController(db, "status change", pages, controllers.ResourceOptions[models.StatusChange]{
		Filters: []controllers.Filter{
			{Param: "entity", Column: "entity"},
			{Param: "entity_id", Column: "entity_id", Kind: controllers.FilterNumber},
		},
		Ordering: []string{"changed_at", "id"},
		ReadOnly: true,
	}).Register(g, "status-changes")

	notificationController := controllers.NewNotificationController(db, deps.Notifier)
	controllers.NewResourceController(db, "notification", pages, controllers.ResourceOptions[models.Notification]{
		Filters: []controllers.Filter{
			{Param: "reservation_id", Column: "reservation_id", Kind: controllers.FilterNumber},
			{Param: "status", Column: "status"},
			{Param: "action", Column: "action"},
		},
		Search:   []controllers.SearchField{{Column: "recipient"}},
		Ordering: []string{"created_at", "id"},
		ReadOnly: true,
	}).Register(g, "notifications")
	g.POST("/notifications/:id/resend", notificationController.Resend)
}
