// Package navigation decides what each role sees: sidebar entries, footer
// links, dashboard widgets and whether a route is open to it.
package navigation

import (
	"slices"
	"strings"

	"accommodation_portal/internal/models"
)

type Item struct {
	Name string
	Icon string
	Path string
}

// Active reports whether the current path is the item's page or one below it.
func (i Item) Active(current string) bool {
	return current == i.Path || strings.HasPrefix(current, i.Path+"/")
}

var dashboardItem = Item{Name: "Dashboard", Icon: "home", Path: "/dashboard"}

var roleItems = map[models.UserRole][]Item{
	models.UserRoleSuperAdmin: {
		{Name: "User Management", Icon: "users", Path: "/admin/users"},
		{Name: "Service Units", Icon: "user-check", Path: "/admin/service-units"},
		{Name: "Buildings & Rooms", Icon: "building", Path: "/admin/buildings"},
		{Name: "Allocations", Icon: "calendar", Path: "/admin/allocations"},
		{Name: "Reports", Icon: "bar-chart", Path: "/admin/reports"},
	},
	models.UserRoleServiceUnitAdmin: {
		{Name: "My Service Unit", Icon: "user-check", Path: "/service-unit/dashboard"},
		{Name: "Members", Icon: "users", Path: "/service-unit/members"},
		{Name: "Allocations", Icon: "calendar", Path: "/service-unit/allocations"},
		{Name: "Reports", Icon: "bar-chart", Path: "/service-unit/reports"},
	},
	models.UserRolePastor: {
		{Name: "My Allocations", Icon: "map-pin", Path: "/pastor/allocations"},
		{Name: "Requests", Icon: "clipboard", Path: "/pastor/requests"},
	},
	models.UserRoleMember: {
		{Name: "My Allocations", Icon: "map-pin", Path: "/member/allocations"},
		{Name: "Make Request", Icon: "clipboard", Path: "/member/requests"},
	},
}

// Items returns the sidebar for role. Unknown roles only get the dashboard.
func Items(role models.UserRole) []Item {
	items := []Item{dashboardItem}
	return append(items, roleItems[role]...)
}

// Breadcrumb names the page at path, falling back to title.
func Breadcrumb(role models.UserRole, path, title string) string {
	if path == dashboardItem.Path {
		return dashboardItem.Name
	}
	for _, item := range Items(role) {
		if item.Active(path) {
			return item.Name
		}
	}
	if title != "" {
		return title
	}
	return "Page"
}

// AllocationsPath is where a role reviews allocations.
func AllocationsPath(role models.UserRole) string {
	switch role {
	case models.UserRoleSuperAdmin:
		return "/admin/allocations"
	case models.UserRoleServiceUnitAdmin:
		return "/service-unit/allocations"
	case models.UserRolePastor:
		return "/pastor/allocations"
	case models.UserRoleMember:
		return "/member/allocations"
	}
	return dashboardItem.Path
}

type Link struct {
	Label string
	Href  string
}

func FooterLinks(role models.UserRole) []Link {
	return []Link{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Profile", Href: "/profile"},
		{Label: "Allocations", Href: AllocationsPath(role)},
	}
}

// HasRequiredRole reports whether user holds one of roles. An empty role list
// admits any signed-in user.
func HasRequiredRole(user *models.User, roles ...models.UserRole) bool {
	if user == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, user.Role)
}
