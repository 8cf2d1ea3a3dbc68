package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error kinds. Controllers map these to HTTP status codes; everything else is a 500.
var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConsistency  = errors.New("consistency")
	ErrAvailability = errors.New("availability")
	ErrConflict     = errors.New("conflict")
	ErrState        = errors.New("state")
	ErrSignature    = errors.New("signature")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a client-safe message for one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func validationErr(msg string) error  { return newErr(ErrValidation, msg) }
func notFoundErr(msg string) error    { return newErr(ErrNotFound, msg) }
func conflictErr(msg string) error    { return newErr(ErrConflict, msg) }
func stateErr(msg string) error       { return newErr(ErrState, msg) }
func consistencyErr(msg string) error { return newErr(ErrConsistency, msg) }
func forbiddenErr(msg string) error   { return newErr(ErrForbidden, msg) }

// UnavailableItemsError names the menu items that cannot be ordered right now.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return "Some items are not available: " + strings.Join(e.Names, ", ")
}

func (e *UnavailableItemsError) Is(target error) bool { return target == ErrAvailability }

// notFoundOr maps gorm's missing-row error to a not-found error with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr(msg)
	}
	return err
}
