package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/web"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	serviceUnitsPath = "/admin/service-units"
	ownUnitPath      = "/service-unit"
)

type ServiceUnitHandler struct {
	*BaseHandler
}

func NewServiceUnitHandler(base *BaseHandler) *ServiceUnitHandler {
	return &ServiceUnitHandler{BaseHandler: base}
}

func (h *ServiceUnitHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group(serviceUnitsPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:id", h.Show)
		admin.POST("/:id", h.Update)
		admin.POST("/:id/delete", h.Delete)
		admin.POST("/:id/members/remove", h.RemoveMember)
		admin.POST("/:id/members/bulk-remove", h.BulkRemoveMembers)
		admin.POST("/:id/members/bulk-assign", h.BulkAssignMembers)
	}

	own := r.Group(ownUnitPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleServiceUnitAdmin))
	{
		own.GET("/members", h.Members)
		own.POST("/members/remove", h.RemoveMember)
		own.POST("/members/bulk-remove", h.BulkRemoveMembers)
		own.POST("/members/bulk-assign", h.BulkAssignMembers)
	}
}

func (h *ServiceUnitHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, models.ServiceUnitInput{}, nil)
}

func (h *ServiceUnitHandler) renderList(c *gin.Context, status int, form models.ServiceUnitInput, errs map[string]string) {
	svc := h.Services(c)
	pageNum, pageSize := ParsePagination(c)
	search := c.Query("search")

	page := h.NewPage(c, "Service Units")
	page.Form = form
	page.Errors = errs

	var (
		units   models.Page[models.ServiceUnit]
		summary map[string]any
		admins  []models.User
	)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.ServiceUnits.GetServiceUnits(gctx, services.ServiceUnitFilter{
			ListParams: services.ListParams{Page: pageNum, PageSize: pageSize, Search: search},
		})
		if !result.Success {
			page.Alert = result.Error
		}
		units = result.Data
		return nil
	})
	g.Go(func() error {
		if result := svc.ServiceUnits.GetServiceUnitsSummary(gctx); result.Success {
			summary = result.Data
		}
		return nil
	})
	g.Go(func() error {
		if result := svc.ServiceUnits.GetAvailableAdmins(gctx); result.Success {
			admins = result.Data.Results
		}
		return nil
	})
	_ = g.Wait()

	page.With("Summary", summary).
		With("Search", search).
		With("Units", units.Results).
		With("Pager", web.NewPager(c.Request.URL, pageNum, units.HasPrevious(), units.HasNext())).
		With("Admins", admins)
	h.Render(c, status, "admin_service_units.html", page)
}

func (h *ServiceUnitHandler) Create(c *gin.Context) {
	var input models.ServiceUnitInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderList(c, http.StatusUnprocessableEntity, input, errs)
		return
	}
	input.Admin = nilIfZero(input.Admin)

	result := h.Services(c).ServiceUnits.CreateServiceUnit(c.Request.Context(), input)
	if !result.Success {
		h.renderList(c, http.StatusBadRequest, input, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeSystem, "Service unit created", result.Data.Name+" was created", unitPath(result.Data.ID))
	h.Redirect(c, serviceUnitsPath, resultNotice(result, "Service unit created successfully"))
}

func (h *ServiceUnitHandler) Show(c *gin.Context) {
	unitID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.renderUnit(c, http.StatusOK, unitID, nil, nil)
}

// Members is the unit admin's view of their own unit.
func (h *ServiceUnitHandler) Members(c *gin.Context) {
	unitID, ok := h.ownUnit(c)
	if !ok {
		return
	}
	h.renderUnit(c, http.StatusOK, unitID, nil, nil)
}

// renderUnit shows one unit with its members. form is only used by the
// super admin's edit form; nil means "prefill from the unit".
func (h *ServiceUnitHandler) renderUnit(c *gin.Context, status int, unitID int64, form *models.ServiceUnitInput, errs map[string]string) {
	svc := h.Services(c)
	manage := h.manages(c)
	search := c.Query("search")
	candidate := c.Query("candidate")

	unitResult := svc.ServiceUnits.GetServiceUnit(c.Request.Context(), unitID)
	if !unitResult.Success {
		if manage {
			h.Redirect(c, serviceUnitsPath, flash.Error(unitResult.Error))
		} else {
			h.Redirect(c, dashboardPath, flash.Error(unitResult.Error))
		}
		return
	}
	unit := unitResult.Data

	var (
		stats      *models.ServiceUnitStats
		members    []models.User
		admins     []models.User
		candidates []models.User
	)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		if result := svc.ServiceUnits.GetServiceUnitStats(gctx, unitID); result.Success {
			stats = &result.Data
		}
		return nil
	})
	g.Go(func() error {
		result := svc.ServiceUnits.GetServiceUnitMembers(gctx, unitID, services.MemberFilter{
			ListParams: services.ListParams{Search: search},
		})
		members = result.Data.Results
		return nil
	})
	if manage {
		g.Go(func() error {
			if result := svc.ServiceUnits.GetAvailableAdmins(gctx); result.Success {
				admins = result.Data.Results
			}
			return nil
		})
	}
	if candidate != "" {
		g.Go(func() error {
			if result := svc.ServiceUnits.SearchAvailableMembers(gctx, candidate, unitID); result.Success {
				candidates = result.Data.Results
			}
			return nil
		})
	}
	_ = g.Wait()

	var adminID int64
	if unit.Admin != nil {
		adminID = unit.Admin.ID
	}
	if form == nil {
		form = &models.ServiceUnitInput{Name: unit.Name, Description: unit.Description}
	}

	page := h.NewPage(c, unit.Name)
	page.Form = *form
	page.Errors = errs
	page.With("BasePath", h.basePath(c, unitID)).
		With("Manage", manage).
		With("Unit", &unit).
		With("Stats", stats).
		With("AdminID", adminID).
		With("Admins", admins).
		With("Members", members).
		With("Search", search).
		With("Candidate", candidate).
		With("Candidates", candidates)
	h.Render(c, status, "service_unit.html", page)
}

func (h *ServiceUnitHandler) Update(c *gin.Context) {
	unitID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var input models.ServiceUnitInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderUnit(c, http.StatusUnprocessableEntity, unitID, &input, errs)
		return
	}
	input.Admin = nilIfZero(input.Admin)

	result := h.Services(c).ServiceUnits.UpdateServiceUnit(c.Request.Context(), unitID, input)
	if !result.Success {
		h.renderUnit(c, http.StatusBadRequest, unitID, &input, failureErrors(result))
		return
	}
	h.Redirect(c, unitPath(unitID), resultNotice(result, "Service unit updated successfully"))
}

func (h *ServiceUnitHandler) Delete(c *gin.Context) {
	unitID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).ServiceUnits.DeleteServiceUnit(c.Request.Context(), unitID)
	h.Redirect(c, serviceUnitsPath, resultNotice(result, "Service unit deleted successfully"))
}

func (h *ServiceUnitHandler) RemoveMember(c *gin.Context) {
	unitID, back, ok := h.targetUnit(c)
	if !ok {
		return
	}
	var member models.MemberAssignment
	if errs, valid := h.BindAndValidate_Form(c, &member); !valid {
		h.Redirect(c, back, flash.Error(firstError(errs)))
		return
	}
	result := h.Services(c).ServiceUnits.RemoveMember(c.Request.Context(), unitID, member)
	h.Redirect(c, back, resultNotice(result, "Member removed successfully"))
}

func (h *ServiceUnitHandler) BulkRemoveMembers(c *gin.Context) {
	unitID, back, ok := h.targetUnit(c)
	if !ok {
		return
	}
	ids := ParseIDs(c, "user_ids")
	if len(ids) == 0 {
		h.Redirect(c, back, missingSelection("member"))
		return
	}
	result := h.Services(c).ServiceUnits.BulkRemoveMembers(c.Request.Context(), unitID, ids)
	h.Redirect(c, back, resultNotice(result, "Members removed successfully"))
}

func (h *ServiceUnitHandler) BulkAssignMembers(c *gin.Context) {
	unitID, back, ok := h.targetUnit(c)
	if !ok {
		return
	}
	ids := ParseIDs(c, "user_ids")
	if len(ids) == 0 {
		h.Redirect(c, back, missingSelection("member"))
		return
	}
	members := make([]models.MemberAssignment, 0, len(ids))
	for _, id := range ids {
		members = append(members, models.MemberAssignment{UserID: id})
	}
	result := h.Services(c).ServiceUnits.BulkAssignMembers(c.Request.Context(), unitID, members)
	if result.Success {
		h.notify(c, models.NotificationTypeUser, "Members assigned",
			fmt.Sprintf("%d members joined the service unit", len(members)), back)
	}
	h.Redirect(c, back, resultNotice(result, "Members assigned successfully"))
}

// targetUnit resolves the unit a member action applies to and the page to
// return to afterwards.
func (h *ServiceUnitHandler) targetUnit(c *gin.Context) (int64, string, bool) {
	if !h.manages(c) {
		unitID, ok := h.ownUnit(c)
		return unitID, ownUnitPath + "/members", ok
	}
	unitID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, "", false
	}
	return unitID, unitPath(unitID), true
}

// ownUnit returns the unit the signed-in admin runs.
func (h *ServiceUnitHandler) ownUnit(c *gin.Context) (int64, bool) {
	user := h.CurrentUser(c)
	if user == nil || user.ServiceUnit == nil || user.ServiceUnit.IsZero() {
		h.Redirect(c, ownUnitPath+"/dashboard", flash.Warning("You are not the admin of any service unit yet."))
		return 0, false
	}
	return user.ServiceUnit.ID, true
}

// manages reports whether the request came through the super admin pages.
func (h *ServiceUnitHandler) manages(c *gin.Context) bool {
	return c.Param("id") != ""
}

func (h *ServiceUnitHandler) basePath(c *gin.Context, unitID int64) string {
	if h.manages(c) {
		return unitPath(unitID)
	}
	return ownUnitPath
}

func unitPath(unitID int64) string {
	return fmt.Sprintf("%s/%d", serviceUnitsPath, unitID)
}

func firstError(errs map[string]string) string {
	if msg, ok := errs[nonFieldErrors]; ok {
		return msg
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "Invalid request"
	}
	return errs[keys[0]]
}
