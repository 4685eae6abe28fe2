package routes

import (
	"net/http"

	"accommodation_portal/internal/handlers"
	"accommodation_portal/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every page of the portal on ginRouter.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	root := ginRouter.Group("/")
	{
		appHandlers.AuthHandler.RegisterRoutes(root)
		appHandlers.DashboardHandler.RegisterRoutes(root)
		appHandlers.UserHandler.RegisterRoutes(root)
		appHandlers.ServiceUnitHandler.RegisterRoutes(root)
		appHandlers.BuildingHandler.RegisterRoutes(root)
		appHandlers.AllocationHandler.RegisterRoutes(root)
		appHandlers.RequestHandler.RegisterRoutes(root)
		appHandlers.RoomHandler.RegisterRoutes(root)
		appHandlers.ReportHandler.RegisterRoutes(root)
		appHandlers.NotificationHandler.RegisterRoutes(root)
		appHandlers.ProfileHandler.RegisterRoutes(root)
		appHandlers.ReservationHandler.RegisterRoutes(root)
	}

	// Unknown paths land on the home page, which forwards signed-in users on.
	ginRouter.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/")
	})
	logger.Info("Portal routes registered", "count", len(ginRouter.Routes()))
}
