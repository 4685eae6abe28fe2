package services

import (
	"context"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
)

// DashboardService reads the role-aware dashboard endpoints. Their payloads arrive
// wrapped in {success, data, role, count, timestamp}; Result.Data keeps that envelope.
type DashboardService interface {
	GetDashboardStats(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardStats]]
	GetDashboardActivities(ctx context.Context) Result[models.DashboardEnvelope[[]models.Activity]]
	GetDashboardSummary(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardSummary]]
	RefreshDashboard(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardSummary]]
}

type dashboardService struct {
	client *apiclient.Client
}

func NewDashboardService(client *apiclient.Client) DashboardService {
	return &dashboardService{client: client}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardStats]] {
	return fetch[models.DashboardEnvelope[models.DashboardStats]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/dashboard/stats/")
	})
}

func (s *dashboardService) GetDashboardActivities(ctx context.Context) Result[models.DashboardEnvelope[[]models.Activity]] {
	return fetch[models.DashboardEnvelope[[]models.Activity]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/dashboard/activities/")
	})
}

func (s *dashboardService) GetDashboardSummary(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardSummary]] {
	return fetch[models.DashboardEnvelope[models.DashboardSummary]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/dashboard/summary/")
	})
}

func (s *dashboardService) RefreshDashboard(ctx context.Context) Result[models.DashboardEnvelope[models.DashboardSummary]] {
	return s.GetDashboardSummary(ctx)
}
