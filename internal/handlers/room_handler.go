package handlers

import (
	"net/http"
	"strconv"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"
	"accommodation_portal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	*BaseHandler
}

func NewRoomHandler(base *BaseHandler) *RoomHandler {
	return &RoomHandler{BaseHandler: base}
}

func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/rooms/:roomId", middleware.RequireAuth(), h.Show)
	r.GET("/pastor/room/:roomId", middleware.RequireAuth(), middleware.RequireRoles(models.UserRolePastor), h.Show)
	r.GET("/member/room/:roomId", middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleMember), h.Show)
}

// Show displays one room. Rooms live under their building, so the building
// comes from the query or, failing that, from the user's own allocations.
func (h *RoomHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	user := h.CurrentUser(c)
	svc := h.Services(c)

	roomID, err := ParseParamID(c, "roomId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	buildingID, _ := strconv.ParseInt(c.Query("building"), 10, 64)
	if buildingID <= 0 {
		if mine := svc.Allocations.GetMyAllocations(ctx); mine.Success {
			for _, a := range mine.Data.Results {
				if a.Room != nil && a.Room.ID == roomID {
					buildingID = a.Room.Building.ID
					break
				}
			}
		}
	}
	if buildingID <= 0 {
		h.HandleServiceError(c, apperrors.ErrPageNotFound)
		return
	}

	result := svc.Buildings.GetRoom(ctx, buildingID, roomID)
	if !result.Success {
		if result.Status == http.StatusNotFound {
			h.HandleServiceError(c, apperrors.ErrPageNotFound)
			return
		}
		h.HandleServiceError(c, apperrors.ErrBackendUnavailable.WithDetails(map[string]string{"reason": result.Error}))
		return
	}
	room := result.Data

	page := h.NewPage(c, "Room "+room.RoomNumber)
	var picture *models.RoomPicture
	if p, ok := room.PrimaryPicture(); ok {
		picture = &p
	}
	page.With("Room", room).
		With("Picture", picture).
		With("BackPath", navigation.AllocationsPath(user.Role)).
		With("RequestPath", requestsPath(user.Role))
	h.Render(c, http.StatusOK, "room.html", page)
}
