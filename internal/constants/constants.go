package constants

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyActor   = "actor"
	SessionCookieName = "pms_session"
	RequestIDHeader   = "X-Request-ID"
)

// Account rules
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	// MaxPasswordBytes is the input limit of bcrypt.
	MaxPasswordBytes  = 72
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Time tracking
const (
	// MaxTimelogHours is the largest value a DECIMAL(4,2) hours column holds.
	MaxTimelogHours = 99.99
	DateLayout      = "2006-01-02"
)

// MaxAIGeneratedTasks caps how many drafts one generation request may persist.
const MaxAIGeneratedTasks = 10
