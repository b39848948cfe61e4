package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a parsed error code and message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts storage errors into a code and a message that is safe to show.
// context names the failed operation, e.g. "create restaurant".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again later",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pgErr.ConstraintName + " " + pgErr.Message)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pgErr.ConstraintName + " " + pgErr.Message)
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: requiredMessage(pgErr.ColumnName)}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
		}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(detail string) ErrorInfo {
	if strings.Contains(strings.ToLower(detail), "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Email address already in use",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

func parseForeignKeyError(detail string) ErrorInfo {
	detail = strings.ToLower(detail)
	if strings.Contains(detail, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Record is still referenced and cannot be removed",
		}
	}
	if strings.Contains(detail, "restaurant") {
		return ErrorInfo{
			Code:    RestaurantNotFound,
			Message: "Restaurant not found",
		}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced record not found",
	}
}

func requiredMessage(column string) string {
	if column == "" {
		return "Missing required fields"
	}
	return column + " is required"
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "restaurant"):
		return "Restaurant not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "reservation"):
		return "Reservation not found"
	}
	return "Requested record not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "register"):
		return "Failed to save. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes it with statusCode
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
