package services

import (
	"context"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
)

const (
	allocationsPath        = "/allocations/allocations/"
	allocationRequestsPath = "/allocations/allocation-requests/"
)

type AllocationService interface {
	GetAllocations(ctx context.Context, filter Filter) Result[models.Page[models.Allocation]]
	GetMyAllocations(ctx context.Context) Result[models.Page[models.Allocation]]
	GetAllocation(ctx context.Context, allocationID int64) Result[models.Allocation]
	CreateAllocation(ctx context.Context, input models.AllocationInput) Result[models.Allocation]
	UpdateAllocation(ctx context.Context, allocationID int64, fields map[string]any) Result[models.Allocation]
	DeleteAllocation(ctx context.Context, allocationID int64) Result[NoContent]
	ActivateAllocation(ctx context.Context, allocationID int64) Result[models.Allocation]
	DeactivateAllocation(ctx context.Context, allocationID int64) Result[models.Allocation]
	GetAvailableRooms(ctx context.Context, filter Filter) Result[models.Page[models.Room]]

	GetAllocationRequests(ctx context.Context, filter Filter) Result[models.Page[models.AllocationRequest]]
	GetMyRequests(ctx context.Context) Result[models.Page[models.AllocationRequest]]
	GetPendingRequests(ctx context.Context) Result[models.Page[models.AllocationRequest]]
	GetAllocationRequest(ctx context.Context, requestID int64) Result[models.AllocationRequest]
	CreateAllocationRequest(ctx context.Context, input models.AllocationRequestInput) Result[models.AllocationRequest]
	UpdateAllocationRequest(ctx context.Context, requestID int64, fields map[string]any) Result[models.AllocationRequest]
	DeleteAllocationRequest(ctx context.Context, requestID int64) Result[NoContent]
	ApproveRequest(ctx context.Context, requestID int64, review models.ReviewInput) Result[map[string]any]
	RejectRequest(ctx context.Context, requestID int64, review models.ReviewInput) Result[map[string]any]
	CancelRequest(ctx context.Context, requestID int64) Result[map[string]any]
}

type allocationService struct {
	client *apiclient.Client
}

func NewAllocationService(client *apiclient.Client) AllocationService {
	return &allocationService{client: client}
}

func (s *allocationService) GetAllocations(ctx context.Context, filter Filter) Result[models.Page[models.Allocation]] {
	return fetch[models.Page[models.Allocation]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationsPath, apiclient.WithParams(filter))
	})
}

func (s *allocationService) GetMyAllocations(ctx context.Context) Result[models.Page[models.Allocation]] {
	return fetch[models.Page[models.Allocation]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationsPath+"my_allocations/")
	})
}

func (s *allocationService) GetAllocation(ctx context.Context, allocationID int64) Result[models.Allocation] {
	return fetch[models.Allocation](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationsPath+id(allocationID)+"/")
	})
}

func (s *allocationService) CreateAllocation(ctx context.Context, input models.AllocationInput) Result[models.Allocation] {
	return fetch[models.Allocation](ctx, s.client, "Allocation created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationsPath, input)
	})
}

func (s *allocationService) UpdateAllocation(ctx context.Context, allocationID int64, fields map[string]any) Result[models.Allocation] {
	return fetch[models.Allocation](ctx, s.client, "Allocation updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, allocationsPath+id(allocationID)+"/", fields)
	})
}

func (s *allocationService) DeleteAllocation(ctx context.Context, allocationID int64) Result[NoContent] {
	return exec(ctx, s.client, "Allocation deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, allocationsPath+id(allocationID)+"/")
	})
}

func (s *allocationService) ActivateAllocation(ctx context.Context, allocationID int64) Result[models.Allocation] {
	return fetch[models.Allocation](ctx, s.client, "Allocation activated", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationsPath+id(allocationID)+"/activate/", nil)
	})
}

func (s *allocationService) DeactivateAllocation(ctx context.Context, allocationID int64) Result[models.Allocation] {
	return fetch[models.Allocation](ctx, s.client, "Allocation deactivated", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationsPath+id(allocationID)+"/deactivate/", nil)
	})
}

func (s *allocationService) GetAvailableRooms(ctx context.Context, filter Filter) Result[models.Page[models.Room]] {
	return fetch[models.Page[models.Room]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationsPath+"available_rooms/", apiclient.WithParams(filter))
	})
}

func (s *allocationService) GetAllocationRequests(ctx context.Context, filter Filter) Result[models.Page[models.AllocationRequest]] {
	return fetch[models.Page[models.AllocationRequest]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationRequestsPath, apiclient.WithParams(filter))
	})
}

func (s *allocationService) GetMyRequests(ctx context.Context) Result[models.Page[models.AllocationRequest]] {
	return fetch[models.Page[models.AllocationRequest]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationRequestsPath+"my_requests/")
	})
}

func (s *allocationService) GetPendingRequests(ctx context.Context) Result[models.Page[models.AllocationRequest]] {
	return fetch[models.Page[models.AllocationRequest]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationRequestsPath+"pending/")
	})
}

func (s *allocationService) GetAllocationRequest(ctx context.Context, requestID int64) Result[models.AllocationRequest] {
	return fetch[models.AllocationRequest](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, allocationRequestsPath+id(requestID)+"/")
	})
}

func (s *allocationService) CreateAllocationRequest(ctx context.Context, input models.AllocationRequestInput) Result[models.AllocationRequest] {
	return fetch[models.AllocationRequest](ctx, s.client, "Allocation request submitted successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationRequestsPath, input)
	})
}

func (s *allocationService) UpdateAllocationRequest(ctx context.Context, requestID int64, fields map[string]any) Result[models.AllocationRequest] {
	return fetch[models.AllocationRequest](ctx, s.client, "Allocation request updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, allocationRequestsPath+id(requestID)+"/", fields)
	})
}

func (s *allocationService) DeleteAllocationRequest(ctx context.Context, requestID int64) Result[NoContent] {
	return exec(ctx, s.client, "Allocation request deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, allocationRequestsPath+id(requestID)+"/")
	})
}

func (s *allocationService) ApproveRequest(ctx context.Context, requestID int64, review models.ReviewInput) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Request approved", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationRequestsPath+id(requestID)+"/approve/", review)
	})
}

func (s *allocationService) RejectRequest(ctx context.Context, requestID int64, review models.ReviewInput) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Request rejected", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationRequestsPath+id(requestID)+"/reject/", review)
	})
}

func (s *allocationService) CancelRequest(ctx context.Context, requestID int64) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Request cancelled", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, allocationRequestsPath+id(requestID)+"/cancel/", nil)
	})
}
