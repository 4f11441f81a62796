package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a single-row query matches nothing.
	ErrNotFound = errors.New("database: record not found")

	// ErrDuplicateKey is returned on unique or primary key violations.
	ErrDuplicateKey = errors.New("database: duplicate key")

	// ErrForeignKeyViolation is returned when a referenced row does not exist.
	ErrForeignKeyViolation = errors.New("database: foreign key violation")
)

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool        { return errors.Is(err, ErrDuplicateKey) }
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }

// Error pairs a sentinel with the original driver error.
type Error struct {
	Sentinel error
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// mapError translates driver errors into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var mapped *Error
	if errors.As(err, &mapped) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Sentinel: ErrNotFound, Cause: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &Error{Sentinel: ErrDuplicateKey, Cause: err}
		case "23503": // foreign_key_violation
			return &Error{Sentinel: ErrForeignKeyViolation, Cause: err}
		}
		return err
	}

	// modernc.org/sqlite reports constraint failures only through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return &Error{Sentinel: ErrDuplicateKey, Cause: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &Error{Sentinel: ErrForeignKeyViolation, Cause: err}
	}

	return err
}
