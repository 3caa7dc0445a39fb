package handlers

// Job error messages
const (
	ErrMsgJobIDRequired     = "Job id is required"
	ErrMsgJobNotFound       = "Job not found"
	ErrMsgJobCreateFailed   = "Failed to create job"
	ErrMsgJobListFailed     = "Failed to list jobs"
	ErrMsgJobGetFailed      = "Failed to get job"
	ErrMsgJobStatusFailed   = "Failed to update job status"
	ErrMsgJobCancelFailed   = "Failed to cancel job"
	ErrMsgJobStatusConflict = "Job status changed concurrently"
	ErrMsgJobStatusInvalid  = "Invalid job status"
)

// Bid error messages
const (
	ErrMsgBidIDRequired     = "Bid id is required"
	ErrMsgBidNotFound       = "Bid not found"
	ErrMsgBidCreateFailed   = "Failed to place bid"
	ErrMsgBidListFailed     = "Failed to list bids"
	ErrMsgBidAcceptFailed   = "Failed to accept bid"
	ErrMsgBidWithdrawFailed = "Failed to withdraw bid"
	ErrMsgJobNotOpen        = "Job is not open for bidding"
	ErrMsgBidNotPending     = "Bid is no longer pending"
)

// Escrow error messages
const (
	ErrMsgEscrowIDRequired    = "Escrow id is required"
	ErrMsgEscrowNotFound      = "Escrow not found"
	ErrMsgEscrowListFailed    = "Failed to list escrows"
	ErrMsgEscrowGetFailed     = "Failed to get escrow"
	ErrMsgEscrowReleaseFailed = "Failed to release escrow"
	ErrMsgReleaseBlocked      = "Escrow release is blocked"
	ErrMsgEscrowFinalized     = "Escrow is already finalized"
	ErrMsgEscrowApproveFailed = "Failed to record approval"
	ErrMsgEscrowRefundFailed  = "Failed to refund escrow"
	ErrMsgEscrowDisputeFailed = "Failed to dispute escrow"
	ErrMsgAdminHoldFailed     = "Failed to update admin hold"
)

// User error messages
const (
	ErrMsgUserIDRequired   = "User id is required"
	ErrMsgUserNotFound     = "User not found"
	ErrMsgCreateUserFailed = "Failed to create user"
	ErrMsgGetUserFailed    = "Failed to get user"
	ErrMsgGetUsersFailed   = "Failed to get users"
	ErrMsgDeleteUserFailed = "Failed to delete user"
)
