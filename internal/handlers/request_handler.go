package handlers

import (
	"fmt"
	"net/http"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var requestStatuses = []models.RequestStatus{
	models.RequestStatusPending,
	models.RequestStatusApproved,
	models.RequestStatusRejected,
	models.RequestStatusCancelled,
}

// RequestHandler lets pastors and members ask for rooms and follow up on
// their requests.
type RequestHandler struct {
	*BaseHandler
}

func NewRequestHandler(base *BaseHandler) *RequestHandler {
	return &RequestHandler{BaseHandler: base}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	for role, path := range map[models.UserRole]string{
		models.UserRolePastor: "/pastor/requests",
		models.UserRoleMember: "/member/requests",
	} {
		g := r.Group(path, middleware.RequireAuth(), middleware.RequireRoles(role))
		g.GET("", h.List)
		g.POST("", h.Create)
		g.POST("/:id/cancel", h.Cancel)
	}
}

func (h *RequestHandler) List(c *gin.Context) {
	h.render(c, http.StatusOK, models.AllocationRequestInput{}, nil)
}

func (h *RequestHandler) render(c *gin.Context, status int, form models.AllocationRequestInput, errs map[string]string) {
	svc := h.Services(c)
	statusFilter := c.Query("status")
	if !models.RequestStatus(statusFilter).Valid() {
		statusFilter = ""
	}

	page := h.NewPage(c, "Allocation Requests")
	var (
		requests  []models.AllocationRequest
		buildings []models.Building
		rooms     []models.Room
	)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.Allocations.GetMyRequests(gctx)
		if !result.Success {
			page.Alert = result.Error
		}
		requests = filterRequests(result.Data.Results, models.RequestStatus(statusFilter))
		return nil
	})
	g.Go(func() error {
		result := svc.Buildings.GetBuildings(gctx, services.BuildingFilter{
			ListParams: services.ListParams{PageSize: 100, SortBy: "name"},
		})
		buildings = result.Data.Results
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
	page.With("Statuses", requestStatuses).
		With("Status", statusFilter).
		With("Requests", requests).
		With("Buildings", buildings).
		With("Rooms", rooms)
	h.Render(c, status, "requests.html", page)
}

// filterRequests keeps the requests in status; an empty status keeps all.
func filterRequests(requests []models.AllocationRequest, status models.RequestStatus) []models.AllocationRequest {
	if status == "" {
		return requests
	}
	out := make([]models.AllocationRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (h *RequestHandler) Create(c *gin.Context) {
	var input models.AllocationRequestInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.render(c, http.StatusUnprocessableEntity, input, errs)
		return
	}
	input.PreferredRoomID = nilIfZero(input.PreferredRoomID)
	input.PreferredBuildingID = nilIfZero(input.PreferredBuildingID)

	result := h.Services(c).Allocations.CreateAllocationRequest(c.Request.Context(), input)
	if !result.Success {
		h.render(c, http.StatusBadRequest, input, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeAllocation, "Request submitted",
		"Your allocation request is awaiting review", c.Request.URL.Path)
	h.Redirect(c, c.Request.URL.Path, resultNotice(result, "Allocation request submitted successfully"))
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	back := requestsPath(h.CurrentUser(c).Role)
	requestID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	current := h.Services(c).Allocations.GetAllocationRequest(c.Request.Context(), requestID)
	if current.Success && !current.Data.IsPending() {
		h.Redirect(c, back, flash.Warning(fmt.Sprintf("Only pending requests can be cancelled; this one is %s", current.Data.Status)))
		return
	}
	result := h.Services(c).Allocations.CancelRequest(c.Request.Context(), requestID)
	h.Redirect(c, back, resultNotice(result, "Request cancelled"))
}
