package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BidStatus represents the current state of a contractor's bid on a job
type BidStatus string

// Bid status constants
const (
	// BidStatusPending indicates the bid is awaiting a homeowner decision
	BidStatusPending BidStatus = "pending"
	// BidStatusAccepted indicates the homeowner accepted the bid
	BidStatusAccepted BidStatus = "accepted"
	// BidStatusRejected indicates the homeowner rejected the bid
	BidStatusRejected BidStatus = "rejected"
	// BidStatusWithdrawn indicates the contractor withdrew the bid
	BidStatusWithdrawn BidStatus = "withdrawn"
)

// Bid represents a contractor's offer to perform a posted job
type Bid struct {
	gorm.Model
	JobID        uint      `json:"job_id" gorm:"not null;index"`
	ContractorID uint      `json:"contractor_id" gorm:"not null;index"`
	AmountCents  int64     `json:"amount_cents" gorm:"not null"`
	Message      string    `json:"message,omitempty" gorm:"type:text"`
	Status       BidStatus `json:"status" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// String returns the string representation of the bid status
func (s BidStatus) String() string {
	return string(s)
}

// ParseBidStatus converts a string to a BidStatus type
func ParseBidStatus(str string) (BidStatus, error) {
	switch str {
	case string(BidStatusPending):
		return BidStatusPending, nil
	case string(BidStatusAccepted):
		return BidStatusAccepted, nil
	case string(BidStatusRejected):
		return BidStatusRejected, nil
	case string(BidStatusWithdrawn):
		return BidStatusWithdrawn, nil
	default:
		return BidStatusPending, fmt.Errorf("invalid bid status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for BidStatus
func (s *BidStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseBidStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// MarshalJSON implements json.Marshaler for BidStatus
func (s BidStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Validate ensures that the bid data is valid
func (b *Bid) Validate() error {
	if b.JobID == 0 {
		return fmt.Errorf("bid job_id cannot be 0")
	}
	if b.ContractorID == 0 {
		return fmt.Errorf("bid contractor_id cannot be 0")
	}
	if b.AmountCents <= 0 {
		return fmt.Errorf("bid amount must be positive")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new bid
func (b *Bid) BeforeCreate(_ *gorm.DB) error {
	if b.Status == "" {
		b.Status = BidStatusPending
	}
	return b.Validate()
}
