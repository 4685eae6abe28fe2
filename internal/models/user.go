package models

import "strings"

type User struct {
	ID                 int64    `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	FullName           string   `json:"full_name,omitempty"`
	PhoneNumber        string   `json:"phone_number,omitempty"`
	Role               UserRole `json:"role"`
	IsActive           *bool    `json:"is_active,omitempty"`
	IsServiceUnitAdmin bool     `json:"is_service_unit_admin,omitempty"`
	ServiceUnit        *Ref     `json:"service_unit,omitempty"`
	ServiceUnitName    string   `json:"service_unit_name,omitempty"`
	AvatarURL          string   `json:"avatar_url,omitempty"`
	DateJoined         string   `json:"date_joined,omitempty"`
	LastLogin          string   `json:"last_login,omitempty"`
	CreatedAt          string   `json:"created_at,omitempty"`
	AllocationCount    int      `json:"allocation_count,omitempty"`
}

// DisplayName prefers the full name, then first and last name, then the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Active treats a missing is_active flag as active.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

type UserInput struct {
	Username    string   `json:"username,omitempty" form:"username" validate:"omitempty,max=150"`
	Email       string   `json:"email" form:"email" validate:"required,email"`
	FirstName   string   `json:"first_name" form:"first_name" validate:"required,max=150"`
	LastName    string   `json:"last_name" form:"last_name" validate:"required,max=150"`
	PhoneNumber string   `json:"phone_number,omitempty" form:"phone_number" validate:"max=20"`
	Role        UserRole `json:"role" form:"role" validate:"required,is-user-role"`
	ServiceUnit *int64   `json:"service_unit,omitempty" form:"service_unit"`
	Password    string   `json:"password,omitempty" form:"password" validate:"omitempty,min=8"`
}

type ProfileInput struct {
	FirstName   string `json:"first_name" form:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" form:"last_name" validate:"required,max=150"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number,omitempty" form:"phone_number" validate:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterRequest struct {
	Username        string   `json:"username" form:"username" validate:"required,max=150"`
	Email           string   `json:"email" form:"email" validate:"required,email"`
	Password        string   `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirm string   `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string   `json:"first_name" form:"first_name" validate:"required"`
	LastName        string   `json:"last_name" form:"last_name" validate:"required"`
	PhoneNumber     string   `json:"phone_number,omitempty" form:"phone_number"`
	Role            UserRole `json:"role" form:"role" validate:"omitempty,is-user-role"`
}

type PasswordChange struct {
	OldPassword     string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" form:"token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

// Tokens is the token pair returned by /auth/login/.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Tokens Tokens `json:"tokens"`
	User   User   `json:"user"`
}

type UserSettings struct {
	EmailNotifications bool   `json:"email_notifications" form:"email_notifications"`
	SMSNotifications   bool   `json:"sms_notifications" form:"sms_notifications"`
	Language           string `json:"language,omitempty" form:"language"`
	Theme              string `json:"theme,omitempty" form:"theme"`
}
