package models

// AnalyticsOverview and chart payloads vary with the backend's reporting window,
// so they are kept loose.
type AnalyticsOverview map[string]any

type ChartData map[string]any

type AnalyticsEvent struct {
	ID                 int64          `json:"id"`
	UserDisplay        string         `json:"user_display,omitempty"`
	EventType          string         `json:"event_type"`
	EventTypeDisplay   string         `json:"event_type_display,omitempty"`
	Timestamp          string         `json:"timestamp"`
	FormattedTimestamp string         `json:"formatted_timestamp,omitempty"`
	ResourceType       string         `json:"resource_type,omitempty"`
	ResourceID         string         `json:"resource_id,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Success            bool           `json:"success"`
	ErrorMessage       string         `json:"error_message,omitempty"`
}

type ExportFormat struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type ExportRequest struct {
	ReportType   string         `json:"report_type" form:"report_type" validate:"required"`
	ExportFormat string         `json:"export_format" form:"export_format" validate:"required,oneof=pdf csv excel json"`
	DateFrom     *string        `json:"date_from" form:"-"`
	DateTo       *string        `json:"date_to" form:"-"`
	Filters      map[string]any `json:"filters" form:"-"`
}

type ExportReport struct {
	ID                 int64  `json:"id"`
	UserDisplay        string `json:"user_display,omitempty"`
	ReportType         string `json:"report_type"`
	ExportFormat       string `json:"export_format"`
	FileName           string `json:"file_name,omitempty"`
	FileSizeMB         any    `json:"file_size_mb,omitempty"`
	Status             string `json:"status"`
	FormattedCreatedAt string `json:"formatted_created_at,omitempty"`
	CreatedAt          string `json:"created_at"`
}
