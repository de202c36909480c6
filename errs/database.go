package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrTransactionFailed    = errors.New("transaction failed")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
	ErrSearchIndex          = errors.New("search index unavailable")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Errors that already carry a status are passed through with added context
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return &ApiErr{
			StatusCode: apiErr.StatusCode,
			err:        apiErr.err,
			Details:    details,
			Cause:      cause,
		}
	}

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "foreign key constraint"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        ErrForeignKeyConstraint,
				Details:    fmt.Sprintf("invalid reference in %s", entity),
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

func NewSearchIndexError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrSearchIndex,
		Details:    fmt.Sprintf("Search index failed during %s", operation),
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsTransactionFailedError(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}

func IsSearchIndexError(err error) bool {
	return errors.Is(err, ErrSearchIndex)
}
