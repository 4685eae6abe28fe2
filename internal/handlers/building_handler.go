package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/web"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	buildingsPath = "/admin/buildings"

	maxPictureSize  = 5 << 20
	maxPictureCount = 10
)

type BuildingHandler struct {
	*BaseHandler
}

func NewBuildingHandler(base *BaseHandler) *BuildingHandler {
	return &BuildingHandler{BaseHandler: base}
}

func (h *BuildingHandler) RegisterRoutes(r *gin.RouterGroup) {
	buildings := r.Group(buildingsPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		buildings.GET("", h.List)
		buildings.POST("", h.Create)
		buildings.GET("/:id", h.Show)
		buildings.POST("/:id", h.Update)
		buildings.POST("/:id/delete", h.Delete)

		buildings.POST("/:id/rooms", h.CreateRoom)
		buildings.POST("/:id/rooms/bulk", h.BulkCreateRooms)
		buildings.POST("/:id/rooms/allocation", h.SetRoomsAllocation)
		buildings.GET("/:id/rooms/:roomId", h.EditRoom)
		buildings.POST("/:id/rooms/:roomId", h.UpdateRoom)
		buildings.POST("/:id/rooms/:roomId/delete", h.DeleteRoom)
		buildings.POST("/:id/rooms/:roomId/pictures", h.UploadPictures)
		buildings.POST("/:id/rooms/:roomId/pictures/:pid/primary", h.SetPrimaryPicture)
		buildings.POST("/:id/rooms/:roomId/pictures/:pid/delete", h.DeletePicture)
	}
}

func (h *BuildingHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, models.BuildingInput{}, nil)
}

func (h *BuildingHandler) renderList(c *gin.Context, status int, form models.BuildingInput, errs map[string]string) {
	svc := h.Services(c)
	pageNum, pageSize := ParsePagination(c)
	search := c.Query("search")
	ordering := c.Query("ordering")

	params := services.ListParams{Page: pageNum, PageSize: pageSize, Search: search}
	if desc, found := strings.CutPrefix(ordering, "-"); found {
		params.SortBy, params.SortOrder = desc, "desc"
	} else {
		params.SortBy = ordering
	}

	page := h.NewPage(c, "Buildings & Rooms")
	page.Form = form
	page.Errors = errs

	var buildings models.Page[models.Building]
	var summary *models.BuildingsSummary
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.Buildings.GetBuildings(gctx, services.BuildingFilter{ListParams: params})
		if !result.Success {
			page.Alert = result.Error
		}
		buildings = result.Data
		return nil
	})
	g.Go(func() error {
		if result := svc.Buildings.GetBuildingsSummary(gctx); result.Success {
			summary = &result.Data
		}
		return nil
	})
	_ = g.Wait()

	page.With("Summary", summary).
		With("Search", search).
		With("Ordering", ordering).
		With("Buildings", buildings.Results).
		With("Pager", web.NewPager(c.Request.URL, pageNum, buildings.HasPrevious(), buildings.HasNext()))
	h.Render(c, status, "admin_buildings.html", page)
}

func (h *BuildingHandler) Create(c *gin.Context) {
	var input models.BuildingInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderList(c, http.StatusUnprocessableEntity, input, errs)
		return
	}
	result := h.Services(c).Buildings.CreateBuilding(c.Request.Context(), input)
	if !result.Success {
		h.renderList(c, http.StatusBadRequest, input, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeSystem, "Building created", result.Data.Name+" was added", buildingPath(result.Data.ID))
	h.Redirect(c, buildingPath(result.Data.ID), resultNotice(result, "Building created successfully"))
}

func (h *BuildingHandler) Show(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.renderBuilding(c, http.StatusOK, buildingID, models.RoomInput{Capacity: 1}, nil, "")
}

func (h *BuildingHandler) renderBuilding(c *gin.Context, status int, buildingID int64, form models.RoomInput, errs map[string]string, bulkRooms string) {
	svc := h.Services(c)
	search := c.Query("search")
	allocated := c.Query("allocated")

	buildingResult := svc.Buildings.GetBuilding(c.Request.Context(), buildingID)
	if !buildingResult.Success {
		h.Redirect(c, buildingsPath, flash.Error(buildingResult.Error))
		return
	}

	filter := services.RoomFilter{ListParams: services.ListParams{Search: search, SortBy: "room_number"}}
	if flag, err := strconv.ParseBool(allocated); err == nil {
		filter.IsAllocated = &flag
	} else {
		allocated = ""
	}

	page := h.NewPage(c, buildingResult.Data.Name)
	var rooms []models.Room
	var stats map[string]any
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.Buildings.GetRooms(gctx, buildingID, filter)
		if !result.Success {
			page.Alert = result.Error
		}
		rooms = result.Data.Results
		return nil
	})
	g.Go(func() error {
		if result := svc.Buildings.GetBuildingStats(gctx, buildingID); result.Success {
			stats = result.Data
		}
		return nil
	})
	_ = g.Wait()

	page.Form = form
	page.Errors = errs
	page.With("Building", buildingResult.Data).
		With("Stats", stats).
		With("Search", search).
		With("Allocated", allocated).
		With("Rooms", rooms).
		With("BulkRooms", bulkRooms)
	h.Render(c, status, "building.html", page)
}

func (h *BuildingHandler) Update(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var input models.BuildingInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.Redirect(c, buildingPath(buildingID), flash.Error(firstError(errs)))
		return
	}
	result := h.Services(c).Buildings.UpdateBuilding(c.Request.Context(), buildingID, input)
	h.Redirect(c, buildingPath(buildingID), resultNotice(result, "Building updated successfully"))
}

func (h *BuildingHandler) Delete(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Buildings.DeleteBuilding(c.Request.Context(), buildingID)
	h.Redirect(c, buildingsPath, resultNotice(result, "Building deleted successfully"))
}

func (h *BuildingHandler) CreateRoom(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var input models.RoomInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderBuilding(c, http.StatusUnprocessableEntity, buildingID, input, errs, "")
		return
	}
	result := h.Services(c).Buildings.CreateRoom(c.Request.Context(), buildingID, input)
	if !result.Success {
		h.renderBuilding(c, http.StatusBadRequest, buildingID, input, failureErrors(result), "")
		return
	}
	h.Redirect(c, buildingPath(buildingID), resultNotice(result, "Room created successfully"))
}

func (h *BuildingHandler) BulkCreateRooms(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	raw := c.PostForm("rooms")
	rooms, err := ParseBulkRooms(raw)
	if err == nil {
		err = h.validator.Validate(models.BulkRoomsInput{Rooms: rooms})
	}
	if err != nil {
		errs := map[string]string{"rooms": err.Error()}
		h.renderBuilding(c, http.StatusUnprocessableEntity, buildingID, models.RoomInput{Capacity: 1}, errs, raw)
		return
	}

	result := h.Services(c).Buildings.BulkCreateRooms(c.Request.Context(), buildingID, rooms)
	if !result.Success {
		errs := failureErrors(result)
		errs["rooms"] = result.Error
		h.renderBuilding(c, http.StatusBadRequest, buildingID, models.RoomInput{Capacity: 1}, errs, raw)
		return
	}
	h.notify(c, models.NotificationTypeSystem, "Rooms created",
		fmt.Sprintf("%d rooms were added", len(rooms)), buildingPath(buildingID))
	h.Redirect(c, buildingPath(buildingID), resultNotice(result, "Rooms created successfully"))
}

// ParseBulkRooms reads one "number, capacity" pair per line. Blank lines are
// skipped and a missing capacity defaults to 1.
func ParseBulkRooms(raw string) ([]models.RoomInput, error) {
	var rooms []models.RoomInput
	seen := make(map[string]bool)
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		number, capacityText, _ := strings.Cut(line, ",")
		number = strings.TrimSpace(number)
		if number == "" {
			return nil, fmt.Errorf("line %d: room number is missing", i+1)
		}
		if seen[strings.ToLower(number)] {
			return nil, fmt.Errorf("line %d: room %s is listed twice", i+1, number)
		}
		seen[strings.ToLower(number)] = true

		capacity := 1
		if text := strings.TrimSpace(capacityText); text != "" {
			n, err := strconv.Atoi(text)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("line %d: capacity must be a positive number", i+1)
			}
			capacity = n
		}
		rooms = append(rooms, models.RoomInput{RoomNumber: number, Capacity: capacity})
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("enter at least one room")
	}
	return rooms, nil
}

func (h *BuildingHandler) SetRoomsAllocation(c *gin.Context) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	ids := ParseIDs(c, "room_ids")
	if len(ids) == 0 {
		h.Redirect(c, buildingPath(buildingID), missingSelection("room"))
		return
	}
	allocated, err := strconv.ParseBool(c.PostForm("is_allocated"))
	if err != nil {
		h.Redirect(c, buildingPath(buildingID), flash.Error("Choose whether the rooms are allocated"))
		return
	}
	result := h.Services(c).Buildings.BulkUpdateRoomAllocation(c.Request.Context(), ids, allocated)
	h.Redirect(c, buildingPath(buildingID), resultNotice(result, "Rooms updated successfully"))
}

func (h *BuildingHandler) roomParams(c *gin.Context) (int64, int64, bool) {
	buildingID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}
	roomID, err := ParseParamID(c, "roomId")
	if err != nil {
		h.HandleServiceError(c, err)
		return 0, 0, false
	}
	return buildingID, roomID, true
}

func (h *BuildingHandler) EditRoom(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	h.renderRoom(c, http.StatusOK, buildingID, roomID, nil, nil)
}

func (h *BuildingHandler) renderRoom(c *gin.Context, status int, buildingID, roomID int64, form *models.RoomInput, errs map[string]string) {
	svc := h.Services(c)

	var (
		building models.Building
		room     models.Room
		failure  string
	)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		result := svc.Buildings.GetBuilding(gctx, buildingID)
		building = result.Data
		return nil
	})
	g.Go(func() error {
		result := svc.Buildings.GetRoom(gctx, buildingID, roomID)
		if !result.Success {
			failure = result.Error
		}
		room = result.Data
		return nil
	})
	_ = g.Wait()

	if failure != "" {
		h.Redirect(c, buildingPath(buildingID), flash.Error(failure))
		return
	}
	if building.ID == 0 {
		building = models.Building{ID: buildingID, Name: room.DisplayBuilding()}
	}
	if form == nil {
		form = &models.RoomInput{
			RoomNumber:  room.RoomNumber,
			Capacity:    room.Capacity,
			HasToilet:   room.HasToilet,
			HasWashroom: room.HasWashroom,
		}
	}

	page := h.NewPage(c, "Room "+room.RoomNumber)
	page.Form = *form
	page.Errors = errs
	page.With("Building", building).With("Room", room)
	h.Render(c, status, "room_edit.html", page)
}

func (h *BuildingHandler) UpdateRoom(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	var input models.RoomInput
	if errs, valid := h.BindAndValidate_Form(c, &input); !valid {
		h.renderRoom(c, http.StatusUnprocessableEntity, buildingID, roomID, &input, errs)
		return
	}
	result := h.Services(c).Buildings.UpdateRoom(c.Request.Context(), buildingID, roomID, input)
	if !result.Success {
		h.renderRoom(c, http.StatusBadRequest, buildingID, roomID, &input, failureErrors(result))
		return
	}
	h.Redirect(c, roomEditPath(buildingID, roomID), resultNotice(result, "Room updated successfully"))
}

func (h *BuildingHandler) DeleteRoom(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	result := h.Services(c).Buildings.DeleteRoom(c.Request.Context(), buildingID, roomID)
	h.Redirect(c, buildingPath(buildingID), resultNotice(result, "Room deleted successfully"))
}

func (h *BuildingHandler) UploadPictures(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	back := roomEditPath(buildingID, roomID)

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		h.Redirect(c, back, flash.Warning("Choose at least one picture to upload"))
		return
	}
	files := form.File["images"]
	if len(files) > maxPictureCount {
		h.Redirect(c, back, flash.Error(fmt.Sprintf("Upload at most %d pictures at a time", maxPictureCount)))
		return
	}

	body := apiclient.NewMultipart()
	for _, fh := range files {
		if fh.Size > maxPictureSize {
			h.Redirect(c, back, flash.Error(fh.Filename+" is larger than 5 MB"))
			return
		}
		if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			h.Redirect(c, back, flash.Error(fh.Filename+" is not an image"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "failed to open uploaded picture", err, "file", fh.Filename)
			h.Redirect(c, back, flash.Error("Could not read "+fh.Filename))
			return
		}
		err = body.AddFile("images", fh.Filename, f)
		f.Close()
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}
	if caption := strings.TrimSpace(c.PostForm("caption")); caption != "" {
		if err := body.AddField("caption", caption); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	result := h.Services(c).Buildings.UploadRoomPictures(c.Request.Context(), buildingID, roomID, body)
	h.Redirect(c, back, resultNotice(result, "Pictures uploaded successfully"))
}

func (h *BuildingHandler) SetPrimaryPicture(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	pictureID, err := ParseParamID(c, "pid")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Buildings.SetPrimaryRoomPicture(c.Request.Context(), buildingID, roomID, pictureID)
	h.Redirect(c, roomEditPath(buildingID, roomID), resultNotice(result, "Primary picture updated successfully"))
}

func (h *BuildingHandler) DeletePicture(c *gin.Context) {
	buildingID, roomID, ok := h.roomParams(c)
	if !ok {
		return
	}
	pictureID, err := ParseParamID(c, "pid")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Buildings.DeleteRoomPicture(c.Request.Context(), buildingID, roomID, pictureID)
	h.Redirect(c, roomEditPath(buildingID, roomID), resultNotice(result, "Picture deleted successfully"))
}

func buildingPath(buildingID int64) string {
	return fmt.Sprintf("%s/%d", buildingsPath, buildingID)
}

func roomEditPath(buildingID, roomID int64) string {
	return fmt.Sprintf("%s/rooms/%d", buildingPath(buildingID), roomID)
}
