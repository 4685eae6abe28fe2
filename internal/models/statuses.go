package models

type UserRole string
type AllocationType string
type RequestStatus string
type NotificationType string

const (
	UserRoleSuperAdmin       UserRole = "SuperAdmin"
	UserRoleServiceUnitAdmin UserRole = "ServiceUnitAdmin"
	UserRolePastor           UserRole = "Pastor"
	UserRoleMember           UserRole = "Member"

	AllocationTypePastor      AllocationType = "Pastor"
	AllocationTypeMember      AllocationType = "Member"
	AllocationTypeServiceUnit AllocationType = "ServiceUnit"

	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusRejected  RequestStatus = "Rejected"
	RequestStatusCancelled RequestStatus = "Cancelled"

	NotificationTypeBooking    NotificationType = "booking"
	NotificationTypeAllocation NotificationType = "allocation"
	NotificationTypePayment    NotificationType = "payment"
	NotificationTypeSystem     NotificationType = "system"
	NotificationTypeUser       NotificationType = "user"
)

// AllUserRoles lists the roles in the order the role selector shows them.
var AllUserRoles = []UserRole{
	UserRoleSuperAdmin,
	UserRoleServiceUnitAdmin,
	UserRolePastor,
	UserRoleMember,
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleSuperAdmin, UserRoleServiceUnitAdmin, UserRolePastor, UserRoleMember:
		return true
	}
	return false
}

func (r UserRole) Label() string {
	switch r {
	case UserRoleSuperAdmin:
		return "Super Admin"
	case UserRoleServiceUnitAdmin:
		return "Service Unit Admin"
	case UserRolePastor:
		return "Pastor"
	case UserRoleMember:
		return "Member"
	}
	return string(r)
}

func (t AllocationType) Valid() bool {
	switch t {
	case AllocationTypePastor, AllocationTypeMember, AllocationTypeServiceUnit:
		return true
	}
	return false
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeBooking, NotificationTypeAllocation, NotificationTypePayment, NotificationTypeSystem, NotificationTypeUser:
		return true
	}
	return false
}
