package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrEntityNotFound indicates no entity has the requested bag and title.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrValueTooLarge indicates a value exceeds its column's size. The
	// write is rejected instead of truncated.
	ErrValueTooLarge = errors.New("value too large")
)

// Column size limits, in characters.
const (
	MaxTitleLength      = 128
	MaxBagLength        = 128
	MaxModifierLength   = 128
	MaxTypeLength       = 128
	MaxTagLength        = 191
	MaxFieldNameLength  = 191
	MaxFieldValueLength = 191
)

// ValueTooLargeError reports which value exceeded its limit.
type ValueTooLargeError struct {
	Column string
	Length int
	Max    int
}

func (e *ValueTooLargeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("value too large for %s", e.Column)
	}
	return fmt.Sprintf("%s is %d characters, limit is %d", e.Column, e.Length, e.Max)
}

func (e *ValueTooLargeError) Is(target error) bool {
	return target == ErrValueTooLarge
}

// MySQL server and client error numbers.
const (
	mysqlErrDataTooLong     = 1406
	mysqlErrServerGone      = 2006
	mysqlErrServerLost      = 2013
	mysqlErrCommandsOutSync = 2014
	mysqlErrBadHost         = 2045
	mysqlErrServerLostExtra = 2055
)

// isDeadConn reports whether err means the connection should be replaced
// and the operation retried.
func isDeadConn(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrServerGone, mysqlErrServerLost, mysqlErrCommandsOutSync,
			mysqlErrBadHost, mysqlErrServerLostExtra:
			return true
		}
	}
	return false
}

var dataTooLongColumn = regexp.MustCompile(`for column '([^']+)'`)

// classifyWriteError maps a MySQL "data too long" error to
// ValueTooLargeError and returns other errors unchanged.
func classifyWriteError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlErrDataTooLong {
		return err
	}
	column := "value"
	if m := dataTooLongColumn.FindStringSubmatch(myErr.Message); m != nil {
		column = m[1]
	}
	return &ValueTooLargeError{Column: column}
}
