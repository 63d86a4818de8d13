package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/loopwhile/firstppt-sub000/controllers"
	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/menu"
	"github.com/loopwhile/firstppt-sub000/middlewares"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/services"
)

// SetupRouter wires the whole HTTP surface: public auth endpoints, then the
// authenticated API over the order core and its collaborators.
func SetupRouter(staffDB *gorm.DB, l *ledger.Ledger, catalog *menu.Catalog, closing *services.ClosingService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Registered before any route so it sits in every handler chain.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(staffDB)
	menuCtrl := controllers.NewMenuController(catalog)
	orderCtrl := controllers.NewOrderController(l, catalog)
	kitchenCtrl := controllers.NewKitchenController(l)
	closingCtrl := controllers.NewClosingController(closing)
	reportCtrl := controllers.NewReportController(l)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Websocket subscription authenticates via query token.
	r.GET("/kitchen/ws", middlewares.WebSocketAuthMiddleware(), kitchenCtrl.Subscribe)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED API
	// ----------------------------------------------------------------
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", userCtrl.GetProfile)

		api.GET("/menus", menuCtrl.GetAllMenus)
		api.PATCH("/menus/:menu_id/availability",
			middlewares.RequireRoles(models.RoleManager), menuCtrl.SetAvailability)

		// Order entry and the order list.
		entry := api.Group("/orders")
		{
			entry.POST("", middlewares.RequireRoles(models.RoleCashier), orderCtrl.CreateOrder)
			entry.GET("", orderCtrl.GetAllOrders)
			entry.GET("/:order_id", orderCtrl.GetOrderByID)
			entry.POST("/:order_id/advance",
				middlewares.RequireRoles(models.RoleCashier, models.RoleKitchen), orderCtrl.AdvanceOrder)
			entry.POST("/:order_id/cancel",
				middlewares.RequireRoles(models.RoleCashier), orderCtrl.CancelOrder)
		}

		api.GET("/kitchen/orders",
			middlewares.RequireRoles(models.RoleKitchen, models.RoleCashier), kitchenCtrl.GetQueue)

		// Cash closing is the cashier's job; the report is for managers.
		closingGroup := api.Group("/closing", middlewares.RequireRoles(models.RoleCashier))
		{
			closingGroup.GET("/today", closingCtrl.GetToday)
			closingGroup.PATCH("/today", closingCtrl.UpdateToday)
			closingGroup.POST("/today/expenses", closingCtrl.AddExpense)
			closingGroup.DELETE("/today/expenses/:expense_id", closingCtrl.RemoveExpense)
			closingGroup.POST("/today/complete", closingCtrl.Complete)
		}
		api.GET("/closing/today/report",
			middlewares.RequireRoles(models.RoleManager), closingCtrl.Report)

		api.GET("/reports/sales",
			middlewares.RequireRoles(models.RoleManager), reportCtrl.SalesChart)
	}

	return r
}
