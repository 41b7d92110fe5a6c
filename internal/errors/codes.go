package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these codes to messages.

const (
	// Authentication (AUTH_)
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// Authorization (AUTHZ_)
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// Validation (VALIDATION_)
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Influencers (INFLUENCER_)
	InfluencerNotFound     = "INFLUENCER_NOT_FOUND"
	InfluencerEmailExists  = "INFLUENCER_EMAIL_EXISTS"
	InfluencerPlatformUsed = "INFLUENCER_PLATFORM_USED" // account already exists for this platform

	// Reference data (REFERENCE_)
	CategoryNotFound  = "CATEGORY_NOT_FOUND"
	CategoryNameTaken = "CATEGORY_NAME_TAKEN"
	StatusNotFound    = "STATUS_NOT_FOUND"
	PlatformNotFound  = "PLATFORM_NOT_FOUND"

	// Uploads (UPLOAD_)
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal (INTERNAL_)
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
