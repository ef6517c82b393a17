package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ministore_back_end/internal/handlers/admin"
	"ministore_back_end/internal/handlers/invoice"
	"ministore_back_end/internal/handlers/product"
	"ministore_back_end/internal/handlers/user"
	"ministore_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(corsConfig())

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// ---------- Public ----------
	api.GET("/products", product.ListProducts)
	api.GET("/products/:slug", product.GetProductBySlug)
	api.GET("/categories", product.ListCategories)

	api.POST("/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)

	// ---------- Connecté ----------
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/cart", user.GetCart)
		auth.POST("/cart/add", user.AddToCart)
		auth.POST("/cart/update/:productId", user.UpdateCartItem)
		auth.DELETE("/cart/:productId", user.RemoveFromCart)

		auth.POST("/checkout/select", user.ProceedToCheckout)
		auth.GET("/checkout", user.CheckoutPreview)
		auth.POST("/checkout", user.PlaceOrder)

		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:id", user.GetOrderByID)
		auth.GET("/orders/:id/invoice", invoice.DownloadInvoice)
		auth.POST("/orders/:id/invoice/resend", invoice.ResendInvoice)

		auth.GET("/profile", user.Me)
		auth.PUT("/profile", user.UpdateProfile)
		auth.PUT("/profile/password", user.ChangePassword)
		auth.POST("/profile/become-seller", user.BecomeSeller)
		auth.POST("/profile/cancel-seller", user.CancelSeller)

		auth.GET("/notifications", user.GetNotifications)
		auth.GET("/notifications/unread-count", user.GetUnreadCount)
	}

	// ---------- Espace vendeur ----------
	seller := api.Group("/seller")
	seller.Use(middleware.AuthRequired(), middleware.RequireSeller)
	{
		seller.GET("/dashboard", product.SellerDashboard)
		seller.POST("/products", product.CreateProduct)
		seller.PUT("/products/:id", product.UpdateProduct)
		seller.DELETE("/products/:id", product.DeleteProduct)
		seller.POST("/products/:id/image", product.UploadProductImage)
	}

	// ---------- Espace admin ----------
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/dashboard", admin.Dashboard)
		adminGroup.GET("/audit", admin.GetAuditLogs)
		adminGroup.POST("/categories", product.CreateCategory)
		adminGroup.POST("/sellers/:id/approve", admin.ApproveSeller)
		adminGroup.POST("/sellers/:id/deny", admin.DenySeller)
		adminGroup.POST("/sellers/:id/approve-cancellation", admin.ApproveCancellation)
		adminGroup.POST("/sellers/:id/revoke", admin.RevokeSeller)
	}
}

func corsConfig() gin.HandlerFunc {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
