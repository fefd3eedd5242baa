package errors

// Store failure classification: maps driver errors from postgres (pgconn) and
// sqlite into project codes so transports never see driver text

import (
	"context"
	"database/sql"
	stderrs "errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we classify
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrQueryCanceled             = "57014"
	pgErrAdminShutdown             = "57P01"
	pgErrCannotConnectNow          = "57P03"
	pgErrReadOnlySQLTransaction    = "25006"
	pgErrTooManyConnections        = "53300"
)

// sqlite primary result codes (extended codes share the low byte)
const (
	sqliteBusy       = 5
	sqliteLocked     = 6
	sqliteCantOpen   = 14
	sqliteConstraint = 19
)

// ExtractPgError returns (*pgconn.PgError, true) if the chain holds a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsUniqueViolation reports whether the error is a unique constraint violation on either driver
func IsUniqueViolation(err error) bool {
	if IsSQLState(err, pgErrUniqueViolation) {
		return true
	}
	code, ok := sqliteCode(err)
	return ok && code == sqliteConstraint && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// StoreErrorCode classifies a store failure
// deadlines map to Timeout, outages to Unavailable, constraint failures to
// Validation or Conflict, everything else to DB
func StoreErrorCode(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrorCodeUnknown
	case stderrs.Is(err, context.DeadlineExceeded):
		return ErrorCodeTimeout
	case stderrs.Is(err, context.Canceled):
		return ErrorCodeUnavailable
	}

	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return ErrorCodeConflict
		case pgErrForeignKeyViolation, pgErrNotNullViolation, pgErrCheckViolation,
			pgErrStringDataRightTruncation, pgErrInvalidTextRepresentation:
			return ErrorCodeValidation
		case pgErrQueryCanceled:
			return ErrorCodeTimeout
		case pgErrAdminShutdown, pgErrCannotConnectNow, pgErrReadOnlySQLTransaction, pgErrTooManyConnections:
			return ErrorCodeUnavailable
		}
		return ErrorCodeDB
	}

	if code, ok := sqliteCode(err); ok {
		switch code {
		case sqliteConstraint:
			if IsUniqueViolation(err) {
				return ErrorCodeConflict
			}
			return ErrorCodeValidation
		case sqliteBusy, sqliteLocked, sqliteCantOpen:
			return ErrorCodeUnavailable
		}
		return ErrorCodeDB
	}

	if stderrs.Is(err, sql.ErrConnDone) || stderrs.Is(err, syscall.ECONNREFUSED) || stderrs.Is(err, syscall.ECONNRESET) {
		return ErrorCodeUnavailable
	}
	var netErr net.Error
	if stderrs.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorCodeTimeout
		}
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromStore wraps a store failure with a classified code and a client safe message
// errors that already carry a project code pass through unchanged
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	code := StoreErrorCode(err)
	switch code {
	case ErrorCodeTimeout:
		return Wrap(err, code, msg+": timed out")
	case ErrorCodeUnavailable:
		return Wrap(err, code, msg+": store unavailable")
	}
	return AttachFieldFromPg(Wrap(err, code, msg))
}

// AttachFieldFromPg enriches an error with the column name from a PgError when present
func AttachFieldFromPg(err error) error {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(err, col)
	}
	return err
}

// sqliteCode reads the primary result code from a sqlite driver error
func sqliteCode(err error) (int, bool) {
	var coded interface{ Code() int }
	if stderrs.As(err, &coded) {
		return coded.Code() & 0xff, true
	}
	return 0, false
}
