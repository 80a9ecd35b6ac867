package audithook

// Action constants for audit events.
const (
	// Schedule actions
	ActionScheduleCreated = "schedule.created"
	ActionScheduleRevoked = "schedule.revoked"

	// Settlement actions
	ActionTokensReleased = "tokens.released"
	ActionTransferFailed = "transfer.failed"

	// Administration actions
	ActionOwnershipTransferred = "ownership.transferred"
)

// Resource constants for audit events.
const (
	ResourceSchedule  = "schedule"
	ResourceRelease   = "release"
	ResourceOwnership = "ownership"
)

// Category constants for audit events.
const (
	CategoryVesting        = "vesting"
	CategorySettlement     = "settlement"
	CategoryAdministration = "administration"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
