package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed storage error: a stable code plus a message safe to
// return to the caller.
type ErrorInfo struct {
	Code    string
	Message string
}

// PostgreSQL SQLSTATE classes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError converts a storage-layer error into an ErrorInfo without leaking
// internals. context is a short operation label ("approve loan", "create
// customer") used to pick a message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "an internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr)
		case pgForeignKeyViolation:
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "the record references or is referenced by other data",
			}
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "required field missing: " + pqErr.Column,
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "value rejected by constraint " + pqErr.Constraint,
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "storage temporarily unavailable, please retry",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func parseUniqueViolation(pqErr *pq.Error) ErrorInfo {
	constraint := strings.ToLower(pqErr.Constraint)

	switch {
	case strings.Contains(constraint, "users_email") || strings.Contains(constraint, "idx_users_email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "email is already registered"}
	case strings.Contains(constraint, "idx_store_state"):
		return ErrorInfo{Code: StateRuleExists, Message: "the store already has a rule for that state"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "a matching record already exists"}
}

func notFoundMessage(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case strings.Contains(ctx, "loan") || strings.Contains(ctx, "pawn"):
		return "loan not found"
	case strings.Contains(ctx, "customer"):
		return "customer not found"
	case strings.Contains(ctx, "vehicle"):
		return "vehicle not found"
	case strings.Contains(ctx, "store"):
		return "store not found"
	case strings.Contains(ctx, "fee"):
		return "fee not found"
	case strings.Contains(ctx, "payment"):
		return "payment not found"
	case strings.Contains(ctx, "user"):
		return "user not found"
	}
	return "requested record not found"
}

func defaultMessage(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case strings.Contains(ctx, "create"):
		return "creation failed, please retry"
	case strings.Contains(ctx, "update") || strings.Contains(ctx, "approve") ||
		strings.Contains(ctx, "payment") || strings.Contains(ctx, "waive"):
		return "update failed, please retry"
	case strings.Contains(ctx, "delete") || strings.Contains(ctx, "deactivate"):
		return "deletion failed, please retry"
	}
	return "an internal error occurred, please retry"
}

// ParseAndRespond parses the error and writes the standard error body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
