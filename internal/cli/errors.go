package cli

import (
	"errors"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/search"
	"github.com/aidanlsb/sift/internal/store"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	ErrConfigInvalid = "CONFIG_INVALID"

	// Entity errors
	ErrEntityNotFound = "ENTITY_NOT_FOUND"
	ErrEntityInvalid  = "ENTITY_INVALID"
	ErrValueTooLarge  = "VALUE_TOO_LARGE"

	// File errors
	ErrFileNotFound  = "FILE_NOT_FOUND"
	ErrFileReadError = "FILE_READ_ERROR"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Query errors
	ErrQueryInvalid = "QUERY_INVALID"
	ErrInvalidValue = "INVALID_VALUE"
	ErrQueryFailed  = "QUERY_FAILED"
	ErrIndexRefused = "INDEX_REFUSED"
	ErrNoResults    = "NO_LAST_RESULTS"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnImportFailed = "IMPORT_FAILED"
	WarnIndexRefused = "INDEX_REFUSED"
)

// classifyError maps errors from the store and search packages to an error
// code, a suggestion and optional details.
func classifyError(err error) (code, suggestion string, details interface{}) {
	var parseErr *query.ParseError
	var malformed *search.MalformedValueError
	var tooLarge *store.ValueTooLargeError

	switch {
	case errors.As(err, &parseErr):
		return ErrQueryInvalid, "Check quoting and parentheses near the reported position", map[string]interface{}{
			"position": parseErr.Pos,
			"near":     parseErr.Fragment,
		}
	case errors.As(err, &malformed):
		return ErrInvalidValue, malformedSuggestion(malformed.Field), map[string]interface{}{
			"field": malformed.Field,
			"value": malformed.Value,
		}
	case errors.As(err, &tooLarge):
		return ErrValueTooLarge, "Shorten the value", map[string]interface{}{
			"column": tooLarge.Column,
			"length": tooLarge.Length,
			"max":    tooLarge.Max,
		}
	case errors.Is(err, store.ErrEntityNotFound):
		return ErrEntityNotFound, "Run 'sift search' to find the entity's bag and title", nil
	case errors.Is(err, search.ErrIndexRefused):
		return ErrIndexRefused, "", nil
	case errors.Is(err, search.ErrQueryFailed):
		var execErr *search.ExecError
		if errors.As(err, &execErr) {
			return ErrQueryFailed, "Run with --verbose to log the statement", map[string]interface{}{"sql": execErr.SQL}
		}
		return ErrQueryFailed, "", nil
	default:
		return ErrInternal, "", nil
	}
}

func malformedSuggestion(field string) string {
	switch field {
	case "id":
		return "Use id:bag:title"
	case "near":
		return "Use near:lat,long,radius with the radius in meters"
	case "_limit":
		return "Use a positive whole number, e.g. _limit:10"
	default:
		return ""
	}
}
