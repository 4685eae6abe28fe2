package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/web"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const allocationsPath = "/admin/allocations"

var allocationTypes = []models.AllocationType{
	models.AllocationTypePastor,
	models.AllocationTypeMember,
	models.AllocationTypeServiceUnit,
}

type AllocationHandler struct {
	*BaseHandler
}

func NewAllocationHandler(base *BaseHandler) *AllocationHandler {
	return &AllocationHandler{BaseHandler: base}
}

func (h *AllocationHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group(allocationsPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.POST("/requests/:id/review", h.Review)
		admin.POST("/:id/activate", h.Activate)
		admin.POST("/:id/deactivate", h.Deactivate)
		admin.POST("/:id/delete", h.Delete)
	}

	unit := r.Group(ownUnitPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleServiceUnitAdmin))
	unit.GET("/allocations", h.UnitAllocations)

	r.GET("/pastor/allocations", middleware.RequireAuth(), middleware.RequireRoles(models.UserRolePastor), h.MyAllocations)
	r.GET("/member/allocations", middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleMember), h.MyAllocations)
}

// allocationQuery turns the list toolbar into backend filters.
func allocationQuery(c *gin.Context) (services.Filter, map[string]string) {
	status := c.Query("status")
	kind := c.Query("type")
	search := strings.TrimSpace(c.Query("search"))
	pageNum, pageSize := ParsePagination(c)

	filter := services.Filter{"page": pageNum, "page_size": pageSize}
	switch status {
	case "active":
		filter["is_active"] = true
	case "inactive":
		filter["is_active"] = false
	default:
		status = ""
	}
	if models.AllocationType(kind).Valid() {
		filter["allocation_type"] = kind
	} else {
		kind = ""
	}
	if search != "" {
		filter["search"] = search
	}
	return filter, map[string]string{"Status": status, "Type": kind, "Search": search}
}

func (h *AllocationHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, models.AllocationInput{AllocationType: models.AllocationTypeMember}, nil)
}

func (h *AllocationHandler) renderList(c *gin.Context, status int, form models.AllocationInput, errs map[string]string) {
	svc := h.Services(c)
	filter, toolbar := allocationQuery(c)
	pageNum, _ := ParsePagination(c)

	page := h.NewPage(c, "Allocations")
	var (
		allocations models.Page[models.Allocation]
		requests    []models.AllocationRequest
		rooms       []models.Room
	)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.Allocations.GetAllocations(gctx, filter)
		if !result.Success {
			page.Alert = result.Error
		}
		allocations = result.Data
		return nil
	})
	g.Go(func() error {
		if result := svc.Allocations.GetPendingRequests(gctx); result.Success {
			requests = result.Data.Results
		}
		return nil
	})
	g.Go(func() error {
		if result := svc.Allocations.GetAvailableRooms(gctx, services.Filter{}); result.Success {
			rooms = result.Data.Results
		}
		return nil
	})
	_ = g.Wait()

	page.Form = form
	page.Errors = errs
	h.withToolbar(page, toolbar).
		With("Manage", true).
		With("Requests", requests).
		With("Allocations", allocations.Results).
		With("Pager", web.NewPager(c.Request.URL, pageNum, allocations.HasPrevious(), allocations.HasNext())).
		With("AvailableRooms", rooms)
	h.Render(c, status, "allocations.html", page)
}

func (h *AllocationHandler) withToolbar(page *web.Page, toolbar map[string]string) *web.Page {
	return page.With("Status", toolbar["Status"]).
		With("Type", toolbar["Type"]).
		With("Search", toolbar["Search"]).
		With("Types", allocationTypes)
}

// UnitAllocations lists the rooms held by the admin's service unit, read only.
func (h *AllocationHandler) UnitAllocations(c *gin.Context) {
	user := h.CurrentUser(c)
	filter, toolbar := allocationQuery(c)
	pageNum, _ := ParsePagination(c)

	page := h.NewPage(c, "Service Unit Allocations")
	var allocations models.Page[models.Allocation]
	if user.ServiceUnit != nil && !user.ServiceUnit.IsZero() {
		filter["service_unit"] = user.ServiceUnit.ID
		result := h.Services(c).Allocations.GetAllocations(c.Request.Context(), filter)
		if !result.Success {
			page.Alert = result.Error
		}
		allocations = result.Data
	} else {
		page.Alert = "You are not the admin of any service unit yet."
	}

	page.Form = models.AllocationInput{}
	h.withToolbar(page, toolbar).
		With("Manage", false).
		With("Requests", []models.AllocationRequest(nil)).
		With("Allocations", allocations.Results).
		With("Pager", web.NewPager(c.Request.URL, pageNum, allocations.HasPrevious(), allocations.HasNext()))
	h.Render(c, http.StatusOK, "allocations.html", page)
}

// MyAllocations shows a pastor or member their own rooms.
func (h *AllocationHandler) MyAllocations(c *gin.Context) {
	user := h.CurrentUser(c)
	page := h.NewPage(c, "My Allocations")

	result := h.Services(c).Allocations.GetMyAllocations(c.Request.Context())
	if !result.Success {
		page.Alert = result.Error
	}
	page.With("Allocations", result.Data.Results).
		With("RoomPath", roomBasePath(user.Role)).
		With("RequestPath", requestsPath(user.Role))
	h.Render(c, http.StatusOK, "my_allocations.html", page)
}

func (h *AllocationHandler) Create(c *gin.Context) {
	var input models.AllocationInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderList(c, http.StatusUnprocessableEntity, input, errs)
		return
	}
	input.UserID = nilIfZero(input.UserID)
	input.ServiceUnitID = nilIfZero(input.ServiceUnitID)
	if errs := allocationTarget(input); errs != nil {
		h.renderList(c, http.StatusUnprocessableEntity, input, errs)
		return
	}

	result := h.Services(c).Allocations.CreateAllocation(c.Request.Context(), input)
	if !result.Success {
		h.renderList(c, http.StatusBadRequest, input, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeAllocation, "Room allocated",
		fmt.Sprintf("A %s allocation was created", strings.ToLower(string(input.AllocationType))), allocationsPath)
	h.Redirect(c, allocationsPath, resultNotice(result, "Allocation created successfully"))
}

// allocationTarget checks that the allocation names the holder its type needs.
func allocationTarget(input models.AllocationInput) map[string]string {
	switch input.AllocationType {
	case models.AllocationTypeServiceUnit:
		if input.ServiceUnitID == nil {
			return map[string]string{"service_unit_id": "A service unit allocation needs a service unit"}
		}
	default:
		if input.UserID == nil {
			return map[string]string{"user_id": "Choose the user who receives the room"}
		}
	}
	return nil
}

func (h *AllocationHandler) Review(c *gin.Context) {
	requestID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var review models.ReviewInput
	if errs, ok := h.BindAndValidate_Form(c, &review); !ok {
		h.Redirect(c, allocationsPath, flash.Error(firstError(errs)))
		return
	}
	review.RoomID = nilIfZero(review.RoomID)

	svc := h.Services(c).Allocations
	ctx := c.Request.Context()
	switch c.PostForm("decision") {
	case "approve":
		result := svc.ApproveRequest(ctx, requestID, review)
		if result.Success {
			h.notify(c, models.NotificationTypeAllocation, "Request approved",
				fmt.Sprintf("Allocation request #%d was approved", requestID), allocationsPath)
		}
		h.Redirect(c, allocationsPath, resultNotice(result, "Request approved"))
	case "reject":
		result := svc.RejectRequest(ctx, requestID, review)
		if result.Success {
			h.notify(c, models.NotificationTypeAllocation, "Request rejected",
				fmt.Sprintf("Allocation request #%d was rejected", requestID), allocationsPath)
		}
		h.Redirect(c, allocationsPath, resultNotice(result, "Request rejected"))
	default:
		h.Redirect(c, allocationsPath, flash.Error("Choose whether to approve or reject the request"))
	}
}

func (h *AllocationHandler) Activate(c *gin.Context) {
	allocationID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Allocations.ActivateAllocation(c.Request.Context(), allocationID)
	h.Redirect(c, allocationsPath, resultNotice(result, "Allocation activated"))
}

func (h *AllocationHandler) Deactivate(c *gin.Context) {
	allocationID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Allocations.DeactivateAllocation(c.Request.Context(), allocationID)
	h.Redirect(c, allocationsPath, resultNotice(result, "Allocation deactivated"))
}

func (h *AllocationHandler) Delete(c *gin.Context) {
	allocationID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Allocations.DeleteAllocation(c.Request.Context(), allocationID)
	h.Redirect(c, allocationsPath, resultNotice(result, "Allocation deleted successfully"))
}

// roomBasePath is where a role views a single room.
func roomBasePath(role models.UserRole) string {
	switch role {
	case models.UserRolePastor:
		return "/pastor/room"
	case models.UserRoleMember:
		return "/member/room"
	}
	return "/rooms"
}

// requestsPath is where a role submits allocation requests.
func requestsPath(role models.UserRole) string {
	switch role {
	case models.UserRolePastor:
		return "/pastor/requests"
	case models.UserRoleMember:
		return "/member/requests"
	}
	return navigation.AllocationsPath(role)
}
