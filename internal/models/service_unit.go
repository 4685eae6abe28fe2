package models

type ServiceUnit struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	Admin               *Ref   `json:"admin,omitempty"`
	AdminName           string `json:"admin_name,omitempty"`
	AdminEmail          string `json:"admin_email,omitempty"`
	MemberCount         int    `json:"member_count"`
	AllocatedRoomsCount int    `json:"allocated_rooms_count"`
	CreatedAt           string `json:"created_at,omitempty"`
}

type ServiceUnitInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
	Admin       *int64 `json:"admin,omitempty" form:"admin"`
}

type MemberAssignment struct {
	UserID int64 `json:"user_id" form:"user_id" validate:"required,min=1"`
}

type BulkMemberAssignment struct {
	Members []MemberAssignment `json:"members" validate:"required,min=1,dive"`
}

type BulkMemberRemoval struct {
	UserIDs []int64 `json:"user_ids" validate:"required,min=1"`
}

type ServiceUnitStats struct {
	TotalMembers      int `json:"total_members"`
	ActiveAllocations int `json:"active_allocations"`
	PendingRequests   int `json:"pending_requests"`
	AllocatedRooms    int `json:"allocated_rooms"`
}
