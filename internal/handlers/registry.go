package handlers

// AppHandlers holds every page handler of the portal.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	DashboardHandler    *DashboardHandler
	UserHandler         *UserHandler
	ServiceUnitHandler  *ServiceUnitHandler
	BuildingHandler     *BuildingHandler
	AllocationHandler   *AllocationHandler
	RequestHandler      *RequestHandler
	RoomHandler         *RoomHandler
	ReportHandler       *ReportHandler
	NotificationHandler *NotificationHandler
	ProfileHandler      *ProfileHandler
	ReservationHandler  *ReservationHandler
}

func NewAppHandlers(base *BaseHandler) *AppHandlers {
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base),
		DashboardHandler:    NewDashboardHandler(base),
		UserHandler:         NewUserHandler(base),
		ServiceUnitHandler:  NewServiceUnitHandler(base),
		BuildingHandler:     NewBuildingHandler(base),
		AllocationHandler:   NewAllocationHandler(base),
		RequestHandler:      NewRequestHandler(base),
		RoomHandler:         NewRoomHandler(base),
		ReportHandler:       NewReportHandler(base),
		NotificationHandler: NewNotificationHandler(base),
		ProfileHandler:      NewProfileHandler(base),
		ReservationHandler:  NewReservationHandler(base),
	}
}
