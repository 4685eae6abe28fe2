package models

type Allocation struct {
	ID                 int64          `json:"id"`
	Room               *Room          `json:"room,omitempty"`
	User               *User          `json:"user,omitempty"`
	ServiceUnit        *ServiceUnit   `json:"service_unit,omitempty"`
	AllocatedBy        *User          `json:"allocated_by,omitempty"`
	AllocationType     AllocationType `json:"allocation_type"`
	AllocationDate     string         `json:"allocation_date,omitempty"`
	StartDate          string         `json:"start_date,omitempty"`
	EndDate            string         `json:"end_date,omitempty"`
	IsActive           bool           `json:"is_active"`
	Notes              string         `json:"notes,omitempty"`
	AllocatedToDisplay string         `json:"allocated_to_display,omitempty"`
	DurationDays       *int           `json:"duration_days,omitempty"`
}

type AllocationInput struct {
	RoomID         int64          `json:"room_id" form:"room_id" validate:"required,min=1"`
	UserID         *int64         `json:"user_id,omitempty" form:"user_id"`
	ServiceUnitID  *int64         `json:"service_unit_id,omitempty" form:"service_unit_id"`
	AllocationType AllocationType `json:"allocation_type" form:"allocation_type" validate:"required,is-allocation-type"`
	StartDate      string         `json:"start_date,omitempty" form:"start_date" validate:"omitempty,iso-date"`
	EndDate        string         `json:"end_date,omitempty" form:"end_date" validate:"omitempty,iso-date,date-gt=StartDate"`
	Notes          string         `json:"notes,omitempty" form:"notes" validate:"max=1000"`
}

type AllocationRequest struct {
	ID                 int64         `json:"id"`
	RequestedBy        *User         `json:"requested_by,omitempty"`
	PreferredRoom      *Room         `json:"preferred_room,omitempty"`
	PreferredBuilding  *Building     `json:"preferred_building,omitempty"`
	RequestReason      string        `json:"request_reason"`
	RequestedStartDate string        `json:"requested_start_date,omitempty"`
	RequestedEndDate   string        `json:"requested_end_date,omitempty"`
	Status             RequestStatus `json:"status"`
	ReviewedBy         *User         `json:"reviewed_by,omitempty"`
	ReviewNotes        string        `json:"review_notes,omitempty"`
	ReviewedAt         string        `json:"reviewed_at,omitempty"`
	CreatedAllocation  *Allocation   `json:"created_allocation,omitempty"`
	CreatedAt          string        `json:"created_at,omitempty"`
	UpdatedAt          string        `json:"updated_at,omitempty"`
}

func (r AllocationRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

type AllocationRequestInput struct {
	PreferredRoomID     *int64 `json:"preferred_room_id,omitempty" form:"preferred_room_id"`
	PreferredBuildingID *int64 `json:"preferred_building_id,omitempty" form:"preferred_building_id"`
	RequestReason       string `json:"request_reason" form:"request_reason" validate:"required,max=1000"`
	RequestedStartDate  string `json:"requested_start_date,omitempty" form:"requested_start_date" validate:"omitempty,iso-date"`
	RequestedEndDate    string `json:"requested_end_date,omitempty" form:"requested_end_date" validate:"omitempty,iso-date,date-gt=RequestedStartDate"`
}

// ReviewInput is sent when approving or rejecting a request.
type ReviewInput struct {
	ReviewNotes string `json:"review_notes,omitempty" form:"review_notes" validate:"max=1000"`
	RoomID      *int64 `json:"room_id,omitempty" form:"room_id"`
	StartDate   string `json:"start_date,omitempty" form:"start_date" validate:"omitempty,iso-date"`
	EndDate     string `json:"end_date,omitempty" form:"end_date" validate:"omitempty,iso-date"`
}
