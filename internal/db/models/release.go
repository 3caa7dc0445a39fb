package models

import (
	"time"
)

// Blocking reason messages surfaced to clients. These strings are part of the
// API contract; the release status endpoint returns them verbatim.
const (
	ReasonAdminReviewPending = "Admin review pending"
	ReasonAwaitingApproval   = "Waiting for homeowner approval"
	ReasonPhotoNotVerified   = "Photo verification pending or failed"
	ReasonPhotoQualityFailed = "Photo quality check failed"
	ReasonGeolocationPending = "Geolocation verification pending"
	ReasonTimestampPending   = "Timestamp verification pending"
	ReasonCoolingOffPrefix   = "Cooling-off period ends "
	ReasonEscrowStatusPrefix = "Escrow status is "
)

// Next action messages surfaced to clients
const (
	NextActionAdminApproval     = "Waiting for admin approval"
	NextActionHomeownerApproval = "Waiting for homeowner approval"
	NextActionPhotoVerification = "Waiting for photo verification"
	NextActionCoolingOff        = "Cooling-off period active"
	NextActionReadyForRelease   = "Ready for release"
)

// ReleaseTimeFormat is the format used for timestamps embedded in blocking
// reason messages
const ReleaseTimeFormat = time.RFC1123

// ReleaseDecision is the result of evaluating an escrow snapshot against the
// release gates at a given instant
type ReleaseDecision struct {
	CanRelease           bool       `json:"can_release"`
	BlockingReasons      []string   `json:"blocking_reasons"`
	NextAction           string     `json:"next_action"`
	EstimatedReleaseDate *time.Time `json:"estimated_release_date,omitempty"`
}

// releaseRule pairs a blocking predicate with the reason it emits. Rules are
// evaluated in declaration order; the order of the emitted reasons is part of
// the API contract.
type releaseRule struct {
	blocked func(e *Escrow, now time.Time) bool
	reason  func(e *Escrow, now time.Time) string
}

func staticReason(msg string) func(*Escrow, time.Time) string {
	return func(*Escrow, time.Time) string { return msg }
}

var releaseRules = []releaseRule{
	{
		blocked: func(e *Escrow, _ time.Time) bool { return e.adminHoldActive() },
		reason:  staticReason(ReasonAdminReviewPending),
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool {
			return e.AdminHoldStatus == AdminHoldActive && e.ReleaseBlockedReason != ""
		},
		reason: func(e *Escrow, _ time.Time) string { return e.ReleaseBlockedReason },
	},
	{
		blocked: func(e *Escrow, now time.Time) bool { return e.approvalPending(now) },
		reason:  staticReason(ReasonAwaitingApproval),
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool {
			return e.PhotoVerificationStatus != PhotoVerificationVerified
		},
		reason: staticReason(ReasonPhotoNotVerified),
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool { return !e.PhotoQualityPassed },
		reason:  staticReason(ReasonPhotoQualityFailed),
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool { return !e.GeolocationVerified },
		reason:  staticReason(ReasonGeolocationPending),
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool { return !e.TimestampVerified },
		reason:  staticReason(ReasonTimestampPending),
	},
	{
		blocked: func(e *Escrow, now time.Time) bool { return e.coolingOffActive(now) },
		reason: func(e *Escrow, _ time.Time) string {
			return ReasonCoolingOffPrefix + e.CoolingOffEndsAt.Format(ReleaseTimeFormat)
		},
	},
	{
		blocked: func(e *Escrow, _ time.Time) bool {
			return e.Status != EscrowStatusHeld && e.Status != EscrowStatusAwaitingApproval
		},
		reason: func(e *Escrow, _ time.Time) string {
			return ReasonEscrowStatusPrefix + e.Status.String()
		},
	},
}

// EvaluateRelease classifies an escrow snapshot at the given instant. It is
// pure: it never fails and mutates nothing, it only inspects the snapshot.
func (e *Escrow) EvaluateRelease(now time.Time) ReleaseDecision {
	reasons := []string{}
	for _, rule := range releaseRules {
		if rule.blocked(e, now) {
			reasons = append(reasons, rule.reason(e, now))
		}
	}

	return ReleaseDecision{
		CanRelease:           len(reasons) == 0 && e.Status == EscrowStatusHeld,
		BlockingReasons:      reasons,
		NextAction:           e.nextAction(reasons, now),
		EstimatedReleaseDate: e.estimatedReleaseDate(),
	}
}

// adminHoldActive reports whether an administrative hold currently blocks
// release. Only the two known hold values block; anything else is treated as
// no hold.
func (e *Escrow) adminHoldActive() bool {
	return e.AdminHoldStatus == AdminHoldActive || e.AdminHoldStatus == AdminHoldPendingReview
}

// approvalPending reports whether the homeowner approval gate is still open:
// no explicit approval and no elapsed auto-approval date.
func (e *Escrow) approvalPending(now time.Time) bool {
	if e.HomeownerApproval {
		return false
	}
	return e.AutoApprovalDate == nil || e.AutoApprovalDate.After(now)
}

func (e *Escrow) coolingOffActive(now time.Time) bool {
	return e.CoolingOffEndsAt != nil && e.CoolingOffEndsAt.After(now)
}

// nextAction derives the single most actionable step. First match wins.
func (e *Escrow) nextAction(reasons []string, now time.Time) string {
	if len(reasons) == 0 {
		return NextActionReadyForRelease
	}
	switch {
	case e.adminHoldActive():
		return NextActionAdminApproval
	case e.approvalPending(now):
		return NextActionHomeownerApproval
	case e.PhotoVerificationStatus != PhotoVerificationVerified:
		return NextActionPhotoVerification
	case e.coolingOffActive(now):
		return NextActionCoolingOff
	default:
		return reasons[0]
	}
}

// estimatedReleaseDate returns the latest of the candidate release dates, or
// nil when none are set or an admin hold blocks release indefinitely.
func (e *Escrow) estimatedReleaseDate() *time.Time {
	if e.AdminHoldStatus == AdminHoldActive {
		return nil
	}

	var latest *time.Time
	for _, candidate := range []*time.Time{e.AutoReleaseDate, e.CoolingOffEndsAt, e.AutoApprovalDate} {
		if candidate == nil {
			continue
		}
		if latest == nil || candidate.After(*latest) {
			t := *candidate
			latest = &t
		}
	}
	return latest
}
