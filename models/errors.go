package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by a repository or a handler matches
// exactly one of these with errors.Is.
var (
	ErrValidation    = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrHasDependents = errors.New("has dependents")
	ErrStoreFailure  = errors.New("store failure")
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

const foreignKeyViolation = "23503"

// ErrorKind classifies an error for display.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNotFound
	KindHasDependents
	KindStoreFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindHasDependents:
		return "has_dependents"
	default:
		return "store_failure"
	}
}

// KindOf reports the kind of err. Errors outside the taxonomy count as store failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrHasDependents):
		return KindHasDependents
	default:
		return KindStoreFailure
	}
}

// ValidationError describes one field whose input could not be accepted.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DependentsError is returned when a delete is refused because other rows
// still reference the target.
type DependentsError struct {
	Entity    string
	ID        uint
	Dependent string
	Count     int64
}

func (e *DependentsError) Error() string {
	if e.Count <= 0 {
		return fmt.Sprintf("cannot delete %s %d: still referenced by %s", e.Entity, e.ID, e.Dependent)
	}
	return fmt.Sprintf("cannot delete %s %d: referenced by %d %s", e.Entity, e.ID, e.Count, e.Dependent)
}

func (e *DependentsError) Unwrap() error {
	return ErrHasDependents
}

// storeError converts a raw persistence error into the taxonomy. Foreign key
// violations reported by the database become dependents errors for the given
// target; everything else is a store failure.
func storeError(err error, entity string, id uint, dependent string) error {
	if err == nil {
		return nil
	}
	if IsForeignKeyViolation(err) {
		return &DependentsError{Entity: entity, ID: id, Dependent: dependent}
	}
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}

// IsForeignKeyViolation reports whether err is a foreign key violation from
// any of the supported drivers.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == foreignKeyViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == foreignKeyViolation
	}
	return false
}

// constraintName returns the violated constraint when the driver reports it.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// FieldErrors collects the rejected fields of one input.
type FieldErrors []*ValidationError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

// Err returns e as an error, or nil when no field was rejected.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
