package handlers

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	isoDate           = "2006-01-02"
	defaultReportDays = 30
)

var (
	reportPeriods = []string{"week", "month", "quarter", "year"}
	chartTypes    = []string{"daily", "weekly", "monthly"}
	reportTypes   = []string{
		"user_activity",
		"allocation_summary",
		"building_utilization",
		"event_log",
		"dashboard_metrics",
		"service_unit_performance",
	}
	fallbackExportFormats = []models.ExportFormat{
		{Value: "pdf", Label: "PDF"},
		{Value: "csv", Label: "CSV"},
		{Value: "excel", Label: "Excel"},
		{Value: "json", Label: "JSON"},
	}
)

type ReportHandler struct {
	*BaseHandler
	now func() time.Time
}

func NewReportHandler(base *BaseHandler) *ReportHandler {
	return &ReportHandler{BaseHandler: base, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	for role, path := range map[models.UserRole]string{
		models.UserRoleSuperAdmin:       "/admin/reports",
		models.UserRoleServiceUnitAdmin: "/service-unit/reports",
	} {
		g := r.Group(path, middleware.RequireAuth(), middleware.RequireRoles(role))
		g.GET("", h.Reports)
		g.POST("/export", h.Export)
	}
}

// reportFilter reads the toolbar, defaulting to the last 30 days by month.
func (h *ReportHandler) reportFilter(getter func(string) string) services.ReportFilter {
	today := h.now()
	filter := services.ReportFilter{
		DateFrom:   validDate(getter("date_from"), today.AddDate(0, 0, -defaultReportDays)),
		DateTo:     validDate(getter("date_to"), today),
		TimePeriod: getter("time_period"),
	}
	if !slices.Contains(reportPeriods, filter.TimePeriod) {
		filter.TimePeriod = "month"
	}
	if filter.DateTo < filter.DateFrom {
		filter.DateFrom, filter.DateTo = filter.DateTo, filter.DateFrom
	}
	return filter
}

func validDate(raw string, fallback time.Time) string {
	if _, err := time.Parse(isoDate, raw); err == nil {
		return raw
	}
	return fallback.Format(isoDate)
}

// reportDays is the length of the filter window, at least one day.
func reportDays(filter services.ReportFilter) int {
	from, errFrom := time.Parse(isoDate, filter.DateFrom)
	to, errTo := time.Parse(isoDate, filter.DateTo)
	if errFrom != nil || errTo != nil {
		return defaultReportDays
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func (h *ReportHandler) Reports(c *gin.Context) {
	filter := h.reportFilter(c.Query)
	h.render(c, http.StatusOK, filter, models.ExportRequest{ReportType: reportTypes[0], ExportFormat: "pdf"}, nil)
}

// render loads every report section concurrently. A failing section is listed
// in Failures and left empty; it never fails the page.
func (h *ReportHandler) render(c *gin.Context, status int, filter services.ReportFilter, form models.ExportRequest, errs map[string]string) {
	svc := h.Services(c)
	chartType := c.Query("chart_type")
	if !slices.Contains(chartTypes, chartType) {
		chartType = chartTypes[0]
	}

	var (
		mu           sync.Mutex
		failures     []string
		overview     models.AnalyticsOverview
		availability map[string]any
		capacity     map[string]any
		chart        models.ChartData
		events       []models.AnalyticsEvent
		formats      []models.ExportFormat
		exports      []models.ExportReport
	)
	fail := func(section, message string) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, section+": "+message)
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		if r := svc.Analytics.GetDashboardOverview(ctx); r.Success {
			overview = r.Data
		} else {
			fail("Overview", r.Error)
		}
		return nil
	})
	g.Go(func() error {
		if r := svc.Buildings.GetRoomAvailabilityReport(ctx, filter); r.Success {
			availability = r.Data
		} else {
			fail("Room availability", r.Error)
		}
		return nil
	})
	g.Go(func() error {
		if r := svc.Buildings.GetCapacityUtilizationReport(ctx, filter); r.Success {
			capacity = r.Data
		} else {
			fail("Capacity utilisation", r.Error)
		}
		return nil
	})
	g.Go(func() error {
		if r := svc.Analytics.GetActivityChartData(ctx, chartType, reportDays(filter)); r.Success {
			chart = r.Data
		} else {
			fail("Activity chart", r.Error)
		}
		return nil
	})
	g.Go(func() error {
		params := services.Filter{"date_from": filter.DateFrom, "date_to": filter.DateTo}
		if r := svc.Analytics.GetEventsList(ctx, 1, 20, params); r.Success {
			events = r.Data.Results
		} else {
			fail("Events", r.Error)
		}
		return nil
	})
	g.Go(func() error {
		if r := svc.Analytics.GetExportFormats(ctx); r.Success && len(r.Data) > 0 {
			formats = r.Data
		} else {
			formats = fallbackExportFormats
		}
		return nil
	})
	g.Go(func() error {
		if r := svc.Analytics.GetMyExports(ctx); r.Success {
			exports = r.Data.Results
		}
		return nil
	})
	_ = g.Wait()

	page := h.NewPage(c, "Reports")
	page.Form = form
	page.Errors = errs
	page.With("Filter", filter).
		With("Periods", reportPeriods).
		With("ChartType", chartType).
		With("Failures", failures).
		With("Overview", overview).
		With("Availability", availability).
		With("Capacity", capacity).
		With("Chart", chart).
		With("Events", events).
		With("ReportTypes", reportTypes).
		With("Formats", formats).
		With("Exports", exports)
	h.Render(c, status, "reports.html", page)
}

func (h *ReportHandler) Export(c *gin.Context) {
	back := strings.TrimSuffix(c.Request.URL.Path, "/export")
	filter := h.reportFilter(c.PostForm)

	var req models.ExportRequest
	if errs, ok := h.BindAndValidate_Form(c, &req); !ok {
		h.render(c, http.StatusUnprocessableEntity, filter, req, errs)
		return
	}
	if !slices.Contains(reportTypes, req.ReportType) {
		h.render(c, http.StatusUnprocessableEntity, filter, req, map[string]string{"report_type": "Unknown report type"})
		return
	}
	req.DateFrom = &filter.DateFrom
	req.DateTo = &filter.DateTo

	result := h.Services(c).Analytics.CreateExportReport(c.Request.Context(), req)
	if !result.Success {
		h.render(c, http.StatusBadRequest, filter, req, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeSystem, "Export started",
		humanReport(req.ReportType)+" ("+strings.ToUpper(req.ExportFormat)+") is being prepared", back)
	h.Redirect(c, back, resultNotice(result, "Export started"))
}

func humanReport(reportType string) string {
	words := strings.Split(reportType, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
