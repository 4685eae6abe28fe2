package services

import (
	"context"
	"fmt"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
)

type BuildingsService interface {
	GetBuildings(ctx context.Context, filter BuildingFilter) Result[models.Page[models.Building]]
	GetBuilding(ctx context.Context, buildingID int64) Result[models.Building]
	CreateBuilding(ctx context.Context, input models.BuildingInput) Result[models.Building]
	UpdateBuilding(ctx context.Context, buildingID int64, input models.BuildingInput) Result[models.Building]
	PatchBuilding(ctx context.Context, buildingID int64, fields map[string]any) Result[models.Building]
	DeleteBuilding(ctx context.Context, buildingID int64) Result[NoContent]

	GetRooms(ctx context.Context, buildingID int64, filter RoomFilter) Result[models.Page[models.Room]]
	GetAllRooms(ctx context.Context, filter RoomFilter) Result[models.Page[models.Room]]
	GetRoom(ctx context.Context, buildingID, roomID int64) Result[models.Room]
	CreateRoom(ctx context.Context, buildingID int64, input models.RoomInput) Result[models.Room]
	UpdateRoom(ctx context.Context, buildingID, roomID int64, input models.RoomInput) Result[models.Room]
	PatchRoom(ctx context.Context, buildingID, roomID int64, fields map[string]any) Result[models.Room]
	DeleteRoom(ctx context.Context, buildingID, roomID int64) Result[NoContent]
	BulkCreateRooms(ctx context.Context, buildingID int64, rooms []models.RoomInput) Result[[]models.Room]
	BulkUpdateRoomAllocation(ctx context.Context, roomIDs []int64, isAllocated bool) Result[map[string]any]

	UploadRoomPictures(ctx context.Context, buildingID, roomID int64, form *apiclient.Multipart) Result[[]models.RoomPicture]
	DeleteRoomPicture(ctx context.Context, buildingID, roomID, pictureID int64) Result[NoContent]
	SetPrimaryRoomPicture(ctx context.Context, buildingID, roomID, pictureID int64) Result[models.RoomPicture]

	GetBuildingsSummary(ctx context.Context) Result[models.BuildingsSummary]
	GetBuildingStats(ctx context.Context, buildingID int64) Result[map[string]any]
	GetRoomAvailabilityReport(ctx context.Context, filter ReportFilter) Result[map[string]any]
	GetCapacityUtilizationReport(ctx context.Context, filter ReportFilter) Result[map[string]any]
}

type buildingsService struct {
	client *apiclient.Client
}

func NewBuildingsService(client *apiclient.Client) BuildingsService {
	return &buildingsService{client: client}
}

func buildingPath(buildingID int64) string {
	return "/buildings/" + id(buildingID) + "/"
}

func roomPath(buildingID, roomID int64) string {
	return buildingPath(buildingID) + "rooms/" + id(roomID) + "/"
}

func (s *buildingsService) GetBuildings(ctx context.Context, filter BuildingFilter) Result[models.Page[models.Building]] {
	return fetch[models.Page[models.Building]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/buildings/", apiclient.WithParams(filter.Query()))
	})
}

func (s *buildingsService) GetBuilding(ctx context.Context, buildingID int64) Result[models.Building] {
	return fetch[models.Building](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, buildingPath(buildingID))
	})
}

func (s *buildingsService) CreateBuilding(ctx context.Context, input models.BuildingInput) Result[models.Building] {
	return fetch[models.Building](ctx, s.client, "Building created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/buildings/", input)
	})
}

func (s *buildingsService) UpdateBuilding(ctx context.Context, buildingID int64, input models.BuildingInput) Result[models.Building] {
	return fetch[models.Building](ctx, s.client, "Building updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, buildingPath(buildingID), input)
	})
}

func (s *buildingsService) PatchBuilding(ctx context.Context, buildingID int64, fields map[string]any) Result[models.Building] {
	return fetch[models.Building](ctx, s.client, "Building updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, buildingPath(buildingID), fields)
	})
}

func (s *buildingsService) DeleteBuilding(ctx context.Context, buildingID int64) Result[NoContent] {
	return exec(ctx, s.client, "Building deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, buildingPath(buildingID))
	})
}

func (s *buildingsService) GetRooms(ctx context.Context, buildingID int64, filter RoomFilter) Result[models.Page[models.Room]] {
	filter.Building = 0
	return fetch[models.Page[models.Room]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, buildingPath(buildingID)+"rooms/", apiclient.WithParams(filter.Query()))
	})
}

func (s *buildingsService) GetAllRooms(ctx context.Context, filter RoomFilter) Result[models.Page[models.Room]] {
	return fetch[models.Page[models.Room]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/rooms/", apiclient.WithParams(filter.Query()))
	})
}

func (s *buildingsService) GetRoom(ctx context.Context, buildingID, roomID int64) Result[models.Room] {
	return fetch[models.Room](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, roomPath(buildingID, roomID))
	})
}

func (s *buildingsService) CreateRoom(ctx context.Context, buildingID int64, input models.RoomInput) Result[models.Room] {
	input.Building = buildingID
	return fetch[models.Room](ctx, s.client, "Room created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, buildingPath(buildingID)+"rooms/", input)
	})
}

func (s *buildingsService) UpdateRoom(ctx context.Context, buildingID, roomID int64, input models.RoomInput) Result[models.Room] {
	if input.Building == 0 {
		input.Building = buildingID
	}
	return fetch[models.Room](ctx, s.client, "Room updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, roomPath(buildingID, roomID), input)
	})
}

func (s *buildingsService) PatchRoom(ctx context.Context, buildingID, roomID int64, fields map[string]any) Result[models.Room] {
	return fetch[models.Room](ctx, s.client, "Room updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, roomPath(buildingID, roomID), fields)
	})
}

func (s *buildingsService) DeleteRoom(ctx context.Context, buildingID, roomID int64) Result[NoContent] {
	return exec(ctx, s.client, "Room deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, roomPath(buildingID, roomID))
	})
}

func (s *buildingsService) BulkCreateRooms(ctx context.Context, buildingID int64, rooms []models.RoomInput) Result[[]models.Room] {
	msg := fmt.Sprintf("%d rooms created successfully", len(rooms))
	return fetch[[]models.Room](ctx, s.client, msg, func() (*apiclient.Response, error) {
		return s.client.Post(ctx, buildingPath(buildingID)+"rooms/bulk/", models.BulkRoomsInput{Rooms: rooms})
	})
}

func (s *buildingsService) BulkUpdateRoomAllocation(ctx context.Context, roomIDs []int64, isAllocated bool) Result[map[string]any] {
	msg := fmt.Sprintf("%d rooms updated successfully", len(roomIDs))
	return fetch[map[string]any](ctx, s.client, msg, func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/rooms/bulk-allocation/", models.BulkAllocationInput{RoomIDs: roomIDs, IsAllocated: isAllocated})
	})
}

func (s *buildingsService) UploadRoomPictures(ctx context.Context, buildingID, roomID int64, form *apiclient.Multipart) Result[[]models.RoomPicture] {
	return fetch[[]models.RoomPicture](ctx, s.client, "Pictures uploaded successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, roomPath(buildingID, roomID)+"pictures/", form)
	})
}

func (s *buildingsService) DeleteRoomPicture(ctx context.Context, buildingID, roomID, pictureID int64) Result[NoContent] {
	return exec(ctx, s.client, "Picture deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, roomPath(buildingID, roomID)+"pictures/"+id(pictureID)+"/")
	})
}

func (s *buildingsService) SetPrimaryRoomPicture(ctx context.Context, buildingID, roomID, pictureID int64) Result[models.RoomPicture] {
	return fetch[models.RoomPicture](ctx, s.client, "Primary picture updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, roomPath(buildingID, roomID)+"pictures/"+id(pictureID)+"/", map[string]any{"is_primary": true})
	})
}

func (s *buildingsService) GetBuildingsSummary(ctx context.Context) Result[models.BuildingsSummary] {
	return fetch[models.BuildingsSummary](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/buildings/summary/")
	})
}

func (s *buildingsService) GetBuildingStats(ctx context.Context, buildingID int64) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, buildingPath(buildingID)+"stats/")
	})
}

func (s *buildingsService) GetRoomAvailabilityReport(ctx context.Context, filter ReportFilter) Result[map[string]any] {
	filter.TimePeriod = ""
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/rooms/availability-report/", apiclient.WithParams(filter.Query()))
	})
}

func (s *buildingsService) GetCapacityUtilizationReport(ctx context.Context, filter ReportFilter) Result[map[string]any] {
	filter.DateFrom, filter.DateTo = "", ""
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/buildings/capacity-report/", apiclient.WithParams(filter.Query()))
	})
}
