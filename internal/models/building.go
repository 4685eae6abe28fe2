package models

type Building struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Location       string  `json:"location,omitempty"`
	CreatedBy      *Ref    `json:"created_by,omitempty"`
	IsActive       bool    `json:"is_active"`
	TotalRooms     int     `json:"total_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	AllocatedRooms int     `json:"allocated_rooms"`
	TotalCapacity  int     `json:"total_capacity"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

type RoomPicture struct {
	ID         int64  `json:"id"`
	Image      string `json:"image"`
	Caption    string `json:"caption,omitempty"`
	IsPrimary  bool   `json:"is_primary"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

type Room struct {
	ID           int64         `json:"id"`
	RoomNumber   string        `json:"room_number"`
	Building     Ref           `json:"building"`
	BuildingName string        `json:"building_name,omitempty"`
	Capacity     int           `json:"capacity"`
	HasToilet    bool          `json:"has_toilet"`
	HasWashroom  bool          `json:"has_washroom"`
	IsAllocated  bool          `json:"is_allocated"`
	IsAvailable  bool          `json:"is_available"`
	Pictures     []RoomPicture `json:"pictures,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
}

// DisplayBuilding returns the building name whichever way the backend rendered it.
func (r Room) DisplayBuilding() string {
	if r.BuildingName != "" {
		return r.BuildingName
	}
	return r.Building.Name
}

// PrimaryPicture returns the picture flagged primary, falling back to the first one.
func (r Room) PrimaryPicture() (RoomPicture, bool) {
	for _, p := range r.Pictures {
		if p.IsPrimary {
			return p, true
		}
	}
	if len(r.Pictures) > 0 {
		return r.Pictures[0], true
	}
	return RoomPicture{}, false
}

type BuildingInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Location    string `json:"location" form:"location" validate:"max=200"`
	Description string `json:"description" form:"description"`
}

type RoomInput struct {
	RoomNumber  string `json:"room_number" form:"room_number" validate:"required,max=20"`
	Capacity    int    `json:"capacity" form:"capacity" validate:"required,min=1"`
	HasToilet   bool   `json:"has_toilet" form:"has_toilet"`
	HasWashroom bool   `json:"has_washroom" form:"has_washroom"`
	Building    int64  `json:"building,omitempty" form:"-"`
}

// BulkRoomsInput is the payload of the bulk room creation endpoint.
type BulkRoomsInput struct {
	Rooms []RoomInput `json:"rooms" validate:"required,min=1,dive"`
}

type BulkAllocationInput struct {
	RoomIDs     []int64 `json:"room_ids" validate:"required,min=1"`
	IsAllocated bool    `json:"is_allocated"`
}

// BuildingsSummary is the payload of /buildings/summary/.
type BuildingsSummary struct {
	TotalBuildings int     `json:"total_buildings"`
	TotalRooms     int     `json:"total_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	AllocatedRooms int     `json:"allocated_rooms"`
	TotalCapacity  int     `json:"total_capacity"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}
