// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/nuvella/storefront-api/internal/domain/session"
	"github.com/nuvella/storefront-api/internal/domain/user"
	"github.com/nuvella/storefront-api/internal/interfaces/http/handlers"
	"github.com/nuvella/storefront-api/internal/interfaces/http/middleware"
	"github.com/nuvella/storefront-api/internal/interfaces/http/ws"
	"github.com/nuvella/storefront-api/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

// Dependencies carries the services the routes are wired to
type Dependencies struct {
	Config    *config.Config
	JWT       *auth.JWTManager
	Sessions  *session.Registry
	Assistant *assistant.Service
	Users     *user.Service
	Analytics *analytics.Service
	Hub       *ws.Hub
	Log       logrus.FieldLogger
}

// SetupChatProxyRoutes sets up the AI proxy routes under /api/chat
func SetupChatProxyRoutes(rg *gin.RouterGroup, deps Dependencies) {
	assistantHandler := handlers.NewAssistantHandler(deps.Assistant, deps.Log)

	rg.POST("/free-ai", assistantHandler.Ask)
	rg.GET("/status", assistantHandler.Status)
}

// SetupAuthRoutes sets up the signed-in shopper's profile routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Users)

	authGroup := rg.Group("/auth")
	authGroup.Use(middleware.AuthMiddleware(deps.JWT))
	{
		authGroup.GET("/me", authHandler.GetProfile)
		authGroup.PUT("/me", authHandler.UpdateProfile)
		authGroup.DELETE("/me", authHandler.DeleteProfile)
	}
}

// SetupSessionRoutes sets up the routes that act on the browser session:
// cart, chat widget, confirmations and the event stream
func SetupSessionRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler()
	chatHandler := handlers.NewChatHandler()
	confirmationHandler := handlers.NewConfirmationHandler()
	eventsHandler := handlers.NewEventsHandler(deps.Hub, deps.Log)

	scoped := rg.Group("")
	scoped.Use(middleware.OptionalAuthMiddleware(deps.JWT))
	scoped.Use(middleware.Session(deps.Config, deps.Sessions))

	cart := scoped.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/drawer/toggle", cartHandler.ToggleDrawer)
		cart.DELETE("/notification", cartHandler.HideNotification)
	}

	chat := scoped.Group("/chat")
	{
		chat.GET("", chatHandler.GetChat)
		chat.POST("/open", chatHandler.OpenChat)
		chat.POST("/close", chatHandler.CloseChat)
		chat.POST("/toggle", chatHandler.ToggleChat)
		chat.PUT("/enabled", chatHandler.SetEnabled)
		chat.POST("/messages", chatHandler.SendMessage)
		chat.DELETE("/messages", chatHandler.ClearMessages)
		chat.GET("/quick-actions", chatHandler.GetQuickActions)
		chat.POST("/quick-actions/:id", chatHandler.UseQuickAction)
		chat.GET("/whatsapp", chatHandler.GetWhatsAppLink)
	}

	confirmations := scoped.Group("/confirmations")
	{
		confirmations.POST("", confirmationHandler.CreateConfirmation)
		confirmations.GET("/current", confirmationHandler.GetCurrent)
		confirmations.GET("/:id/result", confirmationHandler.GetResult)
		confirmations.POST("/:id/confirm", confirmationHandler.Confirm)
		confirmations.POST("/:id/cancel", confirmationHandler.Cancel)
		confirmations.POST("/:id/dismiss", confirmationHandler.Dismiss)
	}

	scoped.GET("/events", eventsHandler.Stream)
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps Dependencies) {
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.JWT)) // Require authentication
	admin.Use(middleware.AdminMiddleware())        // Require admin privileges
	{
		analytics := admin.Group("/analytics")
		{
			analytics.GET("/events", analyticsHandler.GetEvents)
		}
	}
}

// SetupRoutes sets up all API v1 routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupAuthRoutes(rg, deps)
	SetupSessionRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
}
