package constants

import "time"

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	// ContextKeyTask is the gin context key holding a task loaded by RequireTaskOwner.
	ContextKeyTask = "task"

	// HeaderAuthorization carries the raw bearer token.
	HeaderAuthorization = "Authorization"

	// DefaultBcryptCost matches the cost used by existing password hashes.
	DefaultBcryptCost = 10

	// DefaultTimeZone is the reference zone for task window filters.
	DefaultTimeZone = "Asia/Kolkata"

	// DefaultWindowFilter is applied when typeOfFilter is absent from the query.
	DefaultWindowFilter = "thisWeek"

	// DefaultAnalyticsCacheTTL bounds how long cached analytics may be served.
	DefaultAnalyticsCacheTTL = 5 * time.Minute

	// MaxSuggestedTasks caps how many AI suggestions are returned.
	MaxSuggestedTasks = 20
)
