// Package constants holds names shared across the backend layers: headers,
// context keys and table names.
package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPageSize = 20
	MaxPageSize     = 1000

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "apikey"
	HeaderAccept        = "Accept"
	HeaderPrefer        = "Prefer"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXUpsert       = "x-upsert"
	HeaderXClientInfo   = "X-Client-Info"

	// Accept value asking for a single row instead of an array
	ContentTypeSingleObject = "application/vnd.pgrst.object+json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers                   = "users"
	TableAuthSessions            = "auth_sessions"
	TableProfiles                = "profiles"
	TableAcademies               = "academies"
	TableCheckins                = "checkins"
	TableCompetitions            = "competitions"
	TableCompetitionParticipants = "competition_participants"
	TableReviews                 = "reviews"
	TableFamilyInvites           = "family_invites"
)
