package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is an error code plus a message safe to show to clients
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a unique constraint violation.
// gorm translates driver errors when TranslateError is on; the message checks
// cover Postgres (23505) and SQLite texts when it is not.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// IsForeignKeyViolation reports whether err is a foreign key violation
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "sqlstate 23503")
}

// ParseError maps a storage error to a client-facing code and message without
// leaking driver details. context names the resource, e.g. "influencer", "category".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(err.Error())
	}

	if IsForeignKeyViolation(err) {
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "null value") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "influencer_platform") ||
		strings.Contains(errLower, "social_media_accounts.influencer_id"):
		return ErrorInfo{Code: InfluencerPlatformUsed, Message: "This influencer already has an account on this platform"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: InfluencerEmailExists, Message: "This email is already registered"}
	case strings.Contains(errLower, "categories") || strings.Contains(errLower, "idx_categories_name"):
		return ErrorInfo{Code: CategoryNameTaken, Message: "A category with this name already exists"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func notFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "influencer"):
		return "Influencer not found"
	case strings.Contains(context, "category"):
		return "Category not found"
	case strings.Contains(context, "status"):
		return "Status not found"
	case strings.Contains(context, "platform"):
		return "Platform not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	switch {
	case strings.Contains(context, "create") || strings.Contains(context, "register"):
		return "Registration failed, please try again later"
	case strings.Contains(context, "update"):
		return "Update failed, please try again later"
	case strings.Contains(context, "delete"):
		return "Deletion failed, please try again later"
	}
	return "An internal error occurred, please try again later"
}

// ParseAndRespond parses err and writes it with the given status code
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
