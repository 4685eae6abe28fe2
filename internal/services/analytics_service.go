package services

import (
	"context"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
)

type AnalyticsService interface {
	GetDashboardOverview(ctx context.Context) Result[models.AnalyticsOverview]
	GetActivityChartData(ctx context.Context, chartType string, days int) Result[models.ChartData]
	GetEventsList(ctx context.Context, page, pageSize int, filter Filter) Result[models.Page[models.AnalyticsEvent]]
	GetUserActivity(ctx context.Context, days int) Result[map[string]any]
	GetExportFormats(ctx context.Context) Result[[]models.ExportFormat]
	CreateExportReport(ctx context.Context, req models.ExportRequest) Result[models.ExportReport]
	GetMyExports(ctx context.Context) Result[models.Page[models.ExportReport]]
}

type analyticsService struct {
	client *apiclient.Client
}

func NewAnalyticsService(client *apiclient.Client) AnalyticsService {
	return &analyticsService{client: client}
}

func (s *analyticsService) GetDashboardOverview(ctx context.Context) Result[models.AnalyticsOverview] {
	return fetch[models.AnalyticsOverview](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/dashboard_overview/")
	})
}

func (s *analyticsService) GetActivityChartData(ctx context.Context, chartType string, days int) Result[models.ChartData] {
	if chartType == "" {
		chartType = "daily"
	}
	if days <= 0 {
		days = 30
	}
	return fetch[models.ChartData](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/activity_chart_data/", apiclient.WithParams(map[string]any{
			"chart_type": chartType,
			"days":       days,
		}))
	})
}

func (s *analyticsService) GetEventsList(ctx context.Context, page, pageSize int, filter Filter) Result[models.Page[models.AnalyticsEvent]] {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	params := Filter{"page": page, "page_size": pageSize}
	for k, v := range filter {
		params[k] = v
	}
	return fetch[models.Page[models.AnalyticsEvent]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/events_list/", apiclient.WithParams(params))
	})
}

func (s *analyticsService) GetUserActivity(ctx context.Context, days int) Result[map[string]any] {
	if days <= 0 {
		days = 30
	}
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/user_activity/", apiclient.WithParams(map[string]any{"days": days}))
	})
}

func (s *analyticsService) GetExportFormats(ctx context.Context) Result[[]models.ExportFormat] {
	return fetch[[]models.ExportFormat](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/export_formats/")
	})
}

// CreateExportReport sends empty dates as null and a missing filter set as {}.
func (s *analyticsService) CreateExportReport(ctx context.Context, req models.ExportRequest) Result[models.ExportReport] {
	if req.DateFrom != nil && *req.DateFrom == "" {
		req.DateFrom = nil
	}
	if req.DateTo != nil && *req.DateTo == "" {
		req.DateTo = nil
	}
	if req.Filters == nil {
		req.Filters = map[string]any{}
	}
	return fetch[models.ExportReport](ctx, s.client, "Export started", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/analytics/export_report/", req)
	})
}

func (s *analyticsService) GetMyExports(ctx context.Context) Result[models.Page[models.ExportReport]] {
	return fetch[models.Page[models.ExportReport]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/analytics/my_exports/")
	})
}
