package constants

// Context / session keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "chorequest_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// Template validation bounds. A template recurs within a single week, so the
// interval is capped at 7 (exactly one instance on the week's Monday).
const (
	MinIntervalDays = 1
	MaxIntervalDays = 7
)

// MaxAISuggestedTemplates caps how many chore suggestions a single AI call
// may return.
const MaxAISuggestedTemplates = 20
