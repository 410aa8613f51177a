package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyFamily = "family"
	ContextKeyMember = "family_membership"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
	TokenLifetimeDays = 7
)

// Business limits
const (
	ConfessionDailyCap = 3

	// Join-request name matching
	AutoMatchThreshold     = 0.7
	PossibleMatchThreshold = 0.5
	MaxMatchSuggestions    = 10

	// Reminder windows
	AnniversaryWindowDays = 7
	EventWindowDays       = 3
)
