package services

import (
	"accommodation_portal/internal/apiclient"
)

// Registry holds every backend service bound to one browser's credentials.
type Registry struct {
	Auth         AuthService
	Buildings    BuildingsService
	Allocations  AllocationService
	ServiceUnits ServiceUnitsService
	Dashboard    DashboardService
	Users        UserService
	Analytics    AnalyticsService
}

// NewRegistry builds the services for a client already bound to a session.
func NewRegistry(client *apiclient.Client) *Registry {
	return &Registry{
		Auth:         NewAuthService(client),
		Buildings:    NewBuildingsService(client),
		Allocations:  NewAllocationService(client),
		ServiceUnits: NewServiceUnitsService(client),
		Dashboard:    NewDashboardService(client),
		Users:        NewUserService(client),
		Analytics:    NewAnalyticsService(client),
	}
}
