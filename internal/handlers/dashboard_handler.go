package handlers

import (
	"net/http"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type DashboardHandler struct {
	*BaseHandler
}

func NewDashboardHandler(base *BaseHandler) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	authed := r.Group("", middleware.RequireAuth())
	{
		authed.GET("/dashboard", h.Dashboard)
		authed.POST("/dashboard/refresh", h.Refresh)
		for _, path := range []string{"/admin", "/pastor", "/member"} {
			authed.GET(path, redirectTo(dashboardPath))
		}
	}

	unit := r.Group("/service-unit", middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleServiceUnitAdmin))
	{
		unit.GET("", redirectTo("/service-unit/dashboard"))
		unit.GET("/dashboard", h.ServiceUnitDashboard)
	}
}

func redirectTo(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, path)
	}
}

// Dashboard shows the role's widgets. The member's own allocation is loaded
// alongside the summary.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := h.CurrentUser(c)
	svc := h.Services(c)
	layout := navigation.Widgets(user.Role)

	page := h.NewPage(c, "Dashboard")
	stats := models.DashboardStats{}
	var activities []models.Activity
	var allocations []models.Allocation
	var updatedAt string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result := svc.Dashboard.GetDashboardSummary(gctx)
		if !result.Success {
			page.Alert = result.Error
			return nil
		}
		if result.Data.Data.Stats != nil {
			stats = result.Data.Data.Stats
		}
		activities = result.Data.Data.Activities
		updatedAt = result.Data.Timestamp
		return nil
	})
	if layout.ShowAllocation {
		g.Go(func() error {
			result := svc.Allocations.GetMyAllocations(gctx)
			if !result.Success {
				logger.CtxWarn(gctx, "could not load member allocation", "error", result.Error)
				return nil
			}
			for _, a := range result.Data.Results {
				if a.IsActive {
					allocations = append(allocations, a)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	page.With("Layout", layout).
		With("Stats", stats).
		With("Activities", layout.RecentActivities(activities)).
		With("Allocations", allocations).
		With("UpdatedAt", updatedAt)
	h.Render(c, http.StatusOK, "dashboard.html", page)
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	result := h.Services(c).Dashboard.RefreshDashboard(c.Request.Context())
	h.Redirect(c, dashboardPath, resultNotice(result, "Dashboard refreshed"))
}

func (h *DashboardHandler) ServiceUnitDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := h.CurrentUser(c)
	svc := h.Services(c)
	page := h.NewPage(c, "My Service Unit")

	if user.ServiceUnit == nil || user.ServiceUnit.IsZero() {
		page.With("Unit", (*models.ServiceUnit)(nil))
		h.Render(c, http.StatusOK, "service_unit_dashboard.html", page)
		return
	}
	unitID := user.ServiceUnit.ID

	var unit *models.ServiceUnit
	var stats *models.ServiceUnitStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if result := svc.ServiceUnits.GetServiceUnit(gctx, unitID); result.Success {
			unit = &result.Data
		} else {
			page.Alert = result.Error
		}
		return nil
	})
	g.Go(func() error {
		if result := svc.ServiceUnits.GetServiceUnitStats(gctx, unitID); result.Success {
			stats = &result.Data
		}
		return nil
	})
	_ = g.Wait()

	page.With("Unit", unit).With("Stats", stats)
	h.Render(c, http.StatusOK, "service_unit_dashboard.html", page)
}
