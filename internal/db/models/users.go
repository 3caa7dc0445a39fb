package models

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/gorm"
)

// UserRole represents the role of a user in the marketplace
type UserRole int

// User role constants
const (
	// UserRoleHomeowner represents a homeowner posting jobs
	UserRoleHomeowner UserRole = iota
	// UserRoleContractor represents a contractor bidding on jobs
	UserRoleContractor
	// UserRoleAdmin represents an administrator user
	UserRoleAdmin
)

// User represents a user in the system
type User struct {
	gorm.Model
	Username string   `json:"username" gorm:"not null;unique"`
	Email    string   `json:"email" gorm:""`
	Role     UserRole `json:"role" gorm:"index"`
}

// MarshalJSON implements the json.Marshaler interface for User
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(u))
}

func (s UserRole) String() string {
	return []string{
		"homeowner",
		"contractor",
		"admin",
	}[s]
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	for i, role := range []string{
		"homeowner",
		"contractor",
		"admin",
	} {
		if role == str {
			return UserRole(i), nil
		}
	}
	return UserRoleHomeowner, fmt.Errorf("invalid user role: %s", str)
}

// AdminID represents the special ID for admin-level access
const AdminID uint = math.MaxUint32

// ValidateOwnerID ensures the ownerID is valid
func ValidateOwnerID(ownerID uint) error {
	if ownerID == 0 {
		return fmt.Errorf("owner_id cannot be 0")
	}
	return nil
}
