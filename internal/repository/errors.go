package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

// ConflictError is a write rejected because of state already in the store:
// a taken unique value, an unavailable copy or an exhausted loan allowance.
type ConflictError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ReferenceError means a payload pointed at a record that does not exist.
type ReferenceError struct {
	Field string
	ID    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s does not exist", e.Field, e.ID)
}

var (
	ErrCopyUnavailable = &ConflictError{
		Field:   "book_copy",
		Rule:    "available",
		Message: "This copy is not available for loan",
	}
	ErrLoanLimit = &ConflictError{
		Field:   "member",
		Rule:    "max_active_loans",
		Message: fmt.Sprintf("Member has reached the maximum of %d active loans", model.MaxActiveLoans),
	}
	ErrStatusChanged = &ConflictError{
		Field:   "status",
		Rule:    "stale",
		Message: "copy status changed while updating",
	}
	// ErrProtected rejects deleting a record that loans still point at.
	ErrProtected = &ConflictError{
		Rule:    "protected",
		Message: "record is referenced by loans and cannot be deleted",
	}
)

// uniqueRule maps a unique index to the field it guards. Postgres reports the
// index name, SQLite reports the column list.
type uniqueRule struct {
	index   string
	columns string
	field   string
	message string
}

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
)

func constraintViolation(err error) (violation, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return uniqueViolation, pgErr.ConstraintName
		case "23503":
			return foreignKeyViolation, pgErr.ConstraintName
		}
		return noViolation, ""
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return uniqueViolation, liteErr.Error()
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyViolation, liteErr.Error()
		}
	}

	return noViolation, ""
}

// classify turns constraint violations raised by inserts and updates into
// ConflictErrors or ReferenceErrors and leaves every other error untouched.
func classify(err error, rules ...uniqueRule) error {
	if err == nil {
		return nil
	}

	kind, detail := constraintViolation(err)
	switch kind {
	case uniqueViolation:
		for _, r := range rules {
			if detail == r.index || strings.Contains(detail, r.columns) {
				return &ConflictError{Field: r.field, Rule: "unique", Message: r.message}
			}
		}
		return &ConflictError{Rule: "unique", Message: "record already exists"}
	case foreignKeyViolation:
		return &ReferenceError{Field: "reference", ID: detail}
	}

	return err
}

// classifyDelete maps a foreign key violation on delete to ErrProtected.
func classifyDelete(err error) error {
	if err == nil {
		return nil
	}
	if kind, _ := constraintViolation(err); kind == foreignKeyViolation {
		return ErrProtected
	}
	return err
}
