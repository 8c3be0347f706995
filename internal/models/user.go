// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// UserType classifies who the member is, for statistics and mailing.
type UserType string

const (
	UserTypeStudent   UserType = "STUDENT"
	UserTypeProfessor UserType = "PROFESSOR"
	UserTypeJobSeeker UserType = "JOB_SEEKER"
	UserTypeOther     UserType = "OTHER"
)

// SocialProvider identifies which social-login service created the account.
type SocialProvider string

const (
	SocialNone   SocialProvider = "NONE"
	SocialKakao  SocialProvider = "KAKAO"
	SocialGoogle SocialProvider = "GOOGLE"
	SocialNaver  SocialProvider = "NAVER"
)

// User represents a member account. Accounts created through social
// login carry the provider and the provider-side ID; the pair is unique
// among social accounts.
type User struct {
	ID              int64          `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	PasswordHash    string         `json:"-"` // Never serialize the hash
	Role            Role           `json:"role"`
	UserType        UserType       `json:"user_type"`
	Phone           string         `json:"phone,omitempty"`
	Organization    string         `json:"organization,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	ProfileImage    *string        `json:"profile_image"`
	IsEmailVerified bool           `json:"is_email_verified"`
	SocialProvider  SocialProvider `json:"social_provider"`
	SocialID        *string        `json:"-"`
	TOTPSecret      *string        `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled     bool           `json:"totp_enabled"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSocial returns true if the account was created through social login.
func (u *User) IsSocial() bool {
	return u.SocialProvider != SocialNone
}

// Needs2FASetup returns true if an admin has not completed 2FA
// enrollment. Only admin accounts use TOTP.
func (u *User) Needs2FASetup() bool {
	return u.IsAdmin() && !u.TOTPEnabled
}
