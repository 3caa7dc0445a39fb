package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field names for escrow model
const (
	// EscrowStatusField is the field name for escrow status
	EscrowStatusField = "status"
)

// EscrowStatus represents the current state of a held payment
type EscrowStatus string

// Escrow status constants
const (
	// EscrowStatusUnknown represents an unknown or invalid escrow status
	EscrowStatusUnknown EscrowStatus = "unknown"
	// EscrowStatusHeld indicates funds are held pending release conditions
	EscrowStatusHeld EscrowStatus = "held"
	// EscrowStatusAwaitingApproval indicates funds are held waiting on the homeowner
	EscrowStatusAwaitingApproval EscrowStatus = "awaiting_homeowner_approval"
	// EscrowStatusDisputed indicates the homeowner has opened a dispute
	EscrowStatusDisputed EscrowStatus = "disputed"
	// EscrowStatusRefunded indicates funds were returned to the homeowner
	EscrowStatusRefunded EscrowStatus = "refunded"
	// EscrowStatusReleased indicates funds were released to the contractor
	EscrowStatusReleased EscrowStatus = "released"
	// EscrowStatusCompleted indicates the payout has settled
	EscrowStatusCompleted EscrowStatus = "completed"
)

// AdminHoldStatus represents an administrative hold on an escrow
type AdminHoldStatus string

// Admin hold status constants
const (
	// AdminHoldNone indicates no administrative hold
	AdminHoldNone AdminHoldStatus = "none"
	// AdminHoldPendingReview indicates the escrow is queued for admin review
	AdminHoldPendingReview AdminHoldStatus = "pending_review"
	// AdminHoldActive indicates an admin has explicitly blocked release
	AdminHoldActive AdminHoldStatus = "admin_hold"
)

// PhotoVerificationVerified is the value of PhotoVerificationStatus that
// satisfies the photo verification release gate
const PhotoVerificationVerified = "verified"

// Escrow represents a payment held against a job, released to the contractor
// once all release-gating conditions clear
type Escrow struct {
	gorm.Model
	JobID        uint   `json:"job_id" gorm:"not null;index"`
	HomeownerID  uint   `json:"homeowner_id" gorm:"not null;index"`
	ContractorID uint   `json:"contractor_id" gorm:"not null;index"`
	AmountCents  int64  `json:"amount_cents" gorm:"not null"`
	PaymentRef   string `json:"payment_ref" gorm:"index"` // external payment processor reference

	Status          EscrowStatus    `json:"status" gorm:"not null;index"`
	AdminHoldStatus AdminHoldStatus `json:"admin_hold_status" gorm:"not null;default:none"`

	HomeownerApproval       bool   `json:"homeowner_approval" gorm:"not null;default:false"`
	PhotoVerificationStatus string `json:"photo_verification_status"`
	PhotoQualityPassed      bool   `json:"photo_quality_passed" gorm:"not null;default:false"`
	GeolocationVerified     bool   `json:"geolocation_verified" gorm:"not null;default:false"`
	TimestampVerified       bool   `json:"timestamp_verified" gorm:"not null;default:false"`

	CoolingOffEndsAt *time.Time `json:"cooling_off_ends_at,omitempty"`
	AutoApprovalDate *time.Time `json:"auto_approval_date,omitempty"`
	AutoReleaseDate  *time.Time `json:"auto_release_date,omitempty"`
	ReleasedAt       *time.Time `json:"released_at,omitempty"`

	ReleaseBlockedReason string `json:"release_blocked_reason,omitempty" gorm:"type:text"`
}

// String returns the string representation of the escrow status
func (s EscrowStatus) String() string {
	return string(s)
}

// ParseEscrowStatus converts a string to an EscrowStatus type
func ParseEscrowStatus(str string) (EscrowStatus, error) {
	switch str {
	case string(EscrowStatusUnknown):
		return EscrowStatusUnknown, nil
	case string(EscrowStatusHeld):
		return EscrowStatusHeld, nil
	case string(EscrowStatusAwaitingApproval):
		return EscrowStatusAwaitingApproval, nil
	case string(EscrowStatusDisputed):
		return EscrowStatusDisputed, nil
	case string(EscrowStatusRefunded):
		return EscrowStatusRefunded, nil
	case string(EscrowStatusReleased):
		return EscrowStatusReleased, nil
	case string(EscrowStatusCompleted):
		return EscrowStatusCompleted, nil
	default:
		return EscrowStatusUnknown, fmt.Errorf("invalid escrow status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for EscrowStatus
func (s *EscrowStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseEscrowStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// MarshalJSON implements json.Marshaler for EscrowStatus
func (s EscrowStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// String returns the string representation of the admin hold status
func (s AdminHoldStatus) String() string {
	return string(s)
}

// ParseAdminHoldStatus converts a string to an AdminHoldStatus type
func ParseAdminHoldStatus(str string) (AdminHoldStatus, error) {
	switch str {
	case string(AdminHoldNone):
		return AdminHoldNone, nil
	case string(AdminHoldPendingReview):
		return AdminHoldPendingReview, nil
	case string(AdminHoldActive):
		return AdminHoldActive, nil
	default:
		return AdminHoldNone, fmt.Errorf("invalid admin hold status: %s", str)
	}
}

// Validate ensures that the escrow data is valid
func (e *Escrow) Validate() error {
	if e.JobID == 0 {
		return fmt.Errorf("escrow job_id cannot be 0")
	}
	if e.HomeownerID == 0 || e.ContractorID == 0 {
		return fmt.Errorf("escrow parties cannot be 0")
	}
	if e.AmountCents <= 0 {
		return fmt.Errorf("escrow amount must be positive")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new escrow
func (e *Escrow) BeforeCreate(_ *gorm.DB) error {
	if e.Status == "" {
		e.Status = EscrowStatusHeld
	}
	if e.AdminHoldStatus == "" {
		e.AdminHoldStatus = AdminHoldNone
	}
	return e.Validate()
}
