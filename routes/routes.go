package routes

import (
	"pos-backend/configs"
	"pos-backend/controllers"
	"pos-backend/middlewares"
	"pos-backend/repository"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *configs.Config,
	session *services.SessionService,
	poller *services.StatusPoller,
) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Controllers
	authCtrl := controllers.NewAuthController(db, cfg)
	posCtrl := controllers.NewPosController(session, poller, orderRepo, tableRepo, productRepo)
	productCtrl := controllers.NewProductController(productRepo)
	customerCtrl := controllers.NewCustomerController(customerRepo)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(cfg))
	{
		aAuth.GET("/me", authCtrl.Me)
	}

	// POS — ทุกเส้นทางต้องมี scope "pos"
	pos := r.Group("/pos", middlewares.AuthMiddleware(cfg, "pos"))
	{
		pos.GET("/tables", posCtrl.ListTables)
		pos.GET("/tables/open", posCtrl.OpenTables)
		pos.GET("/tables/empty", posCtrl.EmptyTables)
		pos.POST("/tables/:id/select", posCtrl.SelectTable)
		pos.POST("/tables/transfer", posCtrl.TransferTable)

		pos.POST("/checkout", posCtrl.Checkout)
		pos.POST("/orders/:id/hold", posCtrl.HoldOrder)
		pos.POST("/orders/:id/cancel", posCtrl.CancelOrder)
		pos.GET("/orders/:id/receipt", posCtrl.Receipt)

		pos.GET("/products", productCtrl.Search)
		pos.GET("/categories", productCtrl.Categories)
		pos.GET("/customers", customerCtrl.Search)
	}
}
