package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RoleProfessor UserRole = "PROFESSOR"
	RoleAlumni    UserRole = "ALUMNI"
)

// ParseRole maps a raw role string onto the closed role set. Role
// dispatch happens at the routing boundary only; handlers and services
// receive a typed value.
func ParseRole(raw string) (UserRole, error) {
	switch UserRole(raw) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleProfessor:
		return RoleProfessor, nil
	case RoleAlumni:
		return RoleAlumni, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	Username string   `json:"username" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"-"`

	// Status
	EmailVerified bool `json:"email_verified" gorm:"default:false"`
	Approved      bool `json:"approved" gorm:"default:true"` // Alumni require professor approval

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
