package navigation

import (
	"fmt"

	"accommodation_portal/internal/models"
)

type Format string

const (
	FormatNumber   Format = "number"
	FormatPercent  Format = "percent"
	FormatCurrency Format = "currency"
	FormatText     Format = "text"
)

// Widget is one stat card. Key names the counter in the dashboard stats payload.
type Widget struct {
	Key      string
	Title    string
	Subtitle string
	Icon     string
	Format   Format
}

// Value renders the widget's counter from stats.
func (w Widget) Value(stats models.DashboardStats) string {
	raw, ok := stats[w.Key]
	if !ok || raw == nil {
		if w.Format == FormatText {
			return "N/A"
		}
		raw = 0
	}
	switch w.Format {
	case FormatPercent:
		return fmt.Sprintf("%v%%", raw)
	case FormatCurrency:
		return "₦" + groupThousands(stats.Int(w.Key))
	case FormatText:
		return fmt.Sprint(raw)
	}
	if n := stats.Int(w.Key); n != 0 {
		return groupThousands(n)
	}
	return fmt.Sprint(raw)
}

type QuickAction struct {
	Title       string
	Description string
	Path        string
}

// Layout is the dashboard arrangement for one role.
type Layout struct {
	Widgets        []Widget
	Actions        []QuickAction
	ActivityLimit  int
	ShowAllocation bool
}

func Widgets(role models.UserRole) Layout {
	layout := Layout{ActivityLimit: 5}
	switch role {
	case models.UserRoleSuperAdmin:
		layout.Widgets = []Widget{
			{Key: "total_users", Title: "Total Users", Icon: "users", Format: FormatNumber},
			{Key: "total_buildings", Title: "Total Buildings", Subtitle: "Across all locations", Icon: "building", Format: FormatNumber},
			{Key: "total_rooms", Title: "Total Rooms", Subtitle: "Available for allocation", Icon: "map-pin", Format: FormatNumber},
			{Key: "occupancy_rate", Title: "Occupancy Rate", Icon: "trending-up", Format: FormatPercent},
			{Key: "pending_requests", Title: "Pending Requests", Subtitle: "Awaiting approval", Icon: "clock", Format: FormatNumber},
			{Key: "monthly_revenue", Title: "Monthly Revenue", Icon: "bar-chart", Format: FormatCurrency},
			{Key: "active_allocations", Title: "Active Allocations", Subtitle: "Currently occupied", Icon: "check-circle", Format: FormatNumber},
			{Key: "maintenance_requests", Title: "Maintenance Requests", Subtitle: "Require attention", Icon: "alert-circle", Format: FormatNumber},
		}
		layout.Actions = []QuickAction{
			{Title: "Manage Users", Description: "Add, edit or remove users", Path: "/admin/users"},
			{Title: "Service Units", Description: "Organise service units", Path: "/admin/service-units"},
			{Title: "View Reports", Description: "Occupancy and activity analytics", Path: "/admin/reports"},
		}
	case models.UserRoleServiceUnitAdmin:
		layout.Widgets = []Widget{
			{Key: "total_members", Title: "Total Members", Subtitle: "In your service unit", Icon: "users", Format: FormatNumber},
			{Key: "allocated_rooms", Title: "Allocated Rooms", Subtitle: "Currently occupied", Icon: "building", Format: FormatNumber},
			{Key: "pending_requests", Title: "Pending Requests", Subtitle: "Awaiting your approval", Icon: "clock", Format: FormatNumber},
			{Key: "occupancy_rate", Title: "Occupancy Rate", Subtitle: "Current utilization", Icon: "trending-up", Format: FormatPercent},
			{Key: "upcoming_checkouts", Title: "Upcoming Check-outs", Subtitle: "Next 7 days", Icon: "calendar", Format: FormatNumber},
			{Key: "upcoming_checkins", Title: "Upcoming Check-ins", Subtitle: "Next 7 days", Icon: "calendar", Format: FormatNumber},
		}
		layout.Actions = []QuickAction{
			{Title: "Manage Members", Description: "Assign and remove members", Path: "/service-unit/members"},
			{Title: "View Allocations", Description: "Rooms held by your unit", Path: "/service-unit/allocations"},
			{Title: "Generate Reports", Description: "Export unit activity", Path: "/service-unit/reports"},
		}
	case models.UserRolePastor:
		layout.Widgets = []Widget{
			{Key: "assigned_rooms", Title: "Assigned Rooms", Subtitle: "Under your management", Icon: "building", Format: FormatNumber},
			{Key: "occupied_rooms", Title: "Occupied Rooms", Subtitle: "Currently in use", Icon: "check-circle", Format: FormatNumber},
			{Key: "available_rooms", Title: "Available Rooms", Subtitle: "Ready for allocation", Icon: "map-pin", Format: FormatNumber},
			{Key: "pending_requests", Title: "Pending Requests", Subtitle: "Awaiting response", Icon: "clock", Format: FormatNumber},
			{Key: "upcoming_reservations", Title: "Upcoming Reservations", Subtitle: "Next 30 days", Icon: "calendar", Format: FormatNumber},
			{Key: "maintenance_issues", Title: "Maintenance Issues", Subtitle: "Require attention", Icon: "alert-circle", Format: FormatNumber},
		}
		layout.Actions = []QuickAction{
			{Title: "View Allocations", Description: "Your current rooms", Path: "/pastor/allocations"},
			{Title: "Handle Requests", Description: "Submit or follow up requests", Path: "/pastor/requests"},
		}
	case models.UserRoleMember:
		layout.ActivityLimit = 3
		layout.ShowAllocation = true
		layout.Widgets = []Widget{
			{Key: "request_status", Title: "Request Status", Icon: "clipboard", Format: FormatText},
			{Key: "current_allocation", Title: "Current Allocation", Icon: "map-pin", Format: FormatText},
			{Key: "upcoming_events", Title: "Upcoming Events", Subtitle: "Church activities", Icon: "calendar", Format: FormatNumber},
			{Key: "notifications", Title: "Notifications", Subtitle: "Unread messages", Icon: "bell", Format: FormatNumber},
		}
		layout.Actions = []QuickAction{
			{Title: "Make Request", Description: "Ask for accommodation", Path: "/member/requests"},
			{Title: "Make Reservation", Description: "Book a guest house room", Path: "/reservations/booking-info"},
		}
	}
	return layout
}

// RecentActivities trims activities to the role's limit.
func (l Layout) RecentActivities(activities []models.Activity) []models.Activity {
	if len(activities) > l.ActivityLimit {
		return activities[:l.ActivityLimit]
	}
	return activities
}

func groupThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprint(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
