package constants

import "time"

// Session and context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "project_session"
)

// Auth
const (
	MinPasswordLength = 6
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invitations
const (
	InvitationTTL         = 24 * time.Hour
	InvitationTokenLength = 32
)

// Starter project created for users who sign up without an invitation
const (
	StarterProjectName        = "My First Project"
	StarterProjectDescription = "Welcome to your first project! This is where you can start managing your tasks."
)

const (
	DefaultTagColor = "#3b82f6"
	DefaultTimezone = "UTC"
)

// MaxAIGeneratedTasks caps how many suggestions a single generation request may return.
const MaxAIGeneratedTasks = 20
