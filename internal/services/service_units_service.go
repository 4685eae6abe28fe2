package services

import (
	"context"
	"fmt"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"
)

type ServiceUnitsService interface {
	GetServiceUnits(ctx context.Context, filter ServiceUnitFilter) Result[models.Page[models.ServiceUnit]]
	GetServiceUnit(ctx context.Context, unitID int64) Result[models.ServiceUnit]
	CreateServiceUnit(ctx context.Context, input models.ServiceUnitInput) Result[models.ServiceUnit]
	UpdateServiceUnit(ctx context.Context, unitID int64, input models.ServiceUnitInput) Result[models.ServiceUnit]
	PatchServiceUnit(ctx context.Context, unitID int64, fields map[string]any) Result[models.ServiceUnit]
	DeleteServiceUnit(ctx context.Context, unitID int64) Result[NoContent]

	GetServiceUnitMembers(ctx context.Context, unitID int64, filter MemberFilter) Result[models.Page[models.User]]
	AssignMember(ctx context.Context, unitID int64, member models.MemberAssignment) Result[map[string]any]
	RemoveMember(ctx context.Context, unitID int64, member models.MemberAssignment) Result[map[string]any]
	GetServiceUnitStats(ctx context.Context, unitID int64) Result[models.ServiceUnitStats]
	GetAvailableAdmins(ctx context.Context) Result[models.Page[models.User]]
	SearchAvailableMembers(ctx context.Context, search string, excludeUnitID int64) Result[models.Page[models.User]]
	BulkAssignMembers(ctx context.Context, unitID int64, members []models.MemberAssignment) Result[map[string]any]
	BulkRemoveMembers(ctx context.Context, unitID int64, userIDs []int64) Result[map[string]any]
	GetServiceUnitsSummary(ctx context.Context) Result[map[string]any]
}

type serviceUnitsService struct {
	client *apiclient.Client
}

func NewServiceUnitsService(client *apiclient.Client) ServiceUnitsService {
	return &serviceUnitsService{client: client}
}

func unitPath(unitID int64) string {
	return "/service-units/" + id(unitID) + "/"
}

func (s *serviceUnitsService) GetServiceUnits(ctx context.Context, filter ServiceUnitFilter) Result[models.Page[models.ServiceUnit]] {
	return fetch[models.Page[models.ServiceUnit]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/service-units/", apiclient.WithParams(filter.Query()))
	})
}

func (s *serviceUnitsService) GetServiceUnit(ctx context.Context, unitID int64) Result[models.ServiceUnit] {
	return fetch[models.ServiceUnit](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, unitPath(unitID))
	})
}

func (s *serviceUnitsService) CreateServiceUnit(ctx context.Context, input models.ServiceUnitInput) Result[models.ServiceUnit] {
	return fetch[models.ServiceUnit](ctx, s.client, "Service unit created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/service-units/", input)
	})
}

func (s *serviceUnitsService) UpdateServiceUnit(ctx context.Context, unitID int64, input models.ServiceUnitInput) Result[models.ServiceUnit] {
	return fetch[models.ServiceUnit](ctx, s.client, "Service unit updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, unitPath(unitID), input)
	})
}

func (s *serviceUnitsService) PatchServiceUnit(ctx context.Context, unitID int64, fields map[string]any) Result[models.ServiceUnit] {
	return fetch[models.ServiceUnit](ctx, s.client, "Service unit updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, unitPath(unitID), fields)
	})
}

func (s *serviceUnitsService) DeleteServiceUnit(ctx context.Context, unitID int64) Result[NoContent] {
	return exec(ctx, s.client, "Service unit deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, unitPath(unitID))
	})
}

func (s *serviceUnitsService) GetServiceUnitMembers(ctx context.Context, unitID int64, filter MemberFilter) Result[models.Page[models.User]] {
	return fetch[models.Page[models.User]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, unitPath(unitID)+"members/", apiclient.WithParams(filter.Query()))
	})
}

func (s *serviceUnitsService) AssignMember(ctx context.Context, unitID int64, member models.MemberAssignment) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Member assigned successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, unitPath(unitID)+"assign-member/", member)
	})
}

func (s *serviceUnitsService) RemoveMember(ctx context.Context, unitID int64, member models.MemberAssignment) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Member removed successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, unitPath(unitID)+"remove-member/", member)
	})
}

func (s *serviceUnitsService) GetServiceUnitStats(ctx context.Context, unitID int64) Result[models.ServiceUnitStats] {
	return fetch[models.ServiceUnitStats](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, unitPath(unitID)+"stats/")
	})
}

// GetAvailableAdmins falls back to filtering users by role when the dedicated
// endpoint is unavailable.
func (s *serviceUnitsService) GetAvailableAdmins(ctx context.Context) Result[models.Page[models.User]] {
	return fetch[models.Page[models.User]](ctx, s.client, "", func() (*apiclient.Response, error) {
		resp, err := s.client.Get(ctx, "/service-units/available-admins/")
		if err == nil {
			return resp, nil
		}
		logger.CtxDebug(ctx, "available admins endpoint failed, using users endpoint", "error", err.Error())
		return s.client.Get(ctx, "/auth/users/", apiclient.WithParams(map[string]any{
			"role": string(models.UserRoleSuperAdmin) + "," + string(models.UserRoleServiceUnitAdmin),
		}))
	})
}

func (s *serviceUnitsService) SearchAvailableMembers(ctx context.Context, search string, excludeUnitID int64) Result[models.Page[models.User]] {
	params := map[string]any{"search": search}
	if excludeUnitID > 0 {
		params["exclude_service_unit"] = excludeUnitID
	}
	return fetch[models.Page[models.User]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/users/", apiclient.WithParams(params))
	})
}

func (s *serviceUnitsService) BulkAssignMembers(ctx context.Context, unitID int64, members []models.MemberAssignment) Result[map[string]any] {
	msg := fmt.Sprintf("%d members assigned successfully", len(members))
	return fetch[map[string]any](ctx, s.client, msg, func() (*apiclient.Response, error) {
		return s.client.Post(ctx, unitPath(unitID)+"bulk-assign/", models.BulkMemberAssignment{Members: members})
	})
}

func (s *serviceUnitsService) BulkRemoveMembers(ctx context.Context, unitID int64, userIDs []int64) Result[map[string]any] {
	msg := fmt.Sprintf("%d members removed successfully", len(userIDs))
	return fetch[map[string]any](ctx, s.client, msg, func() (*apiclient.Response, error) {
		return s.client.Post(ctx, unitPath(unitID)+"bulk-remove/", models.BulkMemberRemoval{UserIDs: userIDs})
	})
}

func (s *serviceUnitsService) GetServiceUnitsSummary(ctx context.Context) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/service-units/summary/")
	})
}
