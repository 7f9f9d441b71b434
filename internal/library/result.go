package library

import (
	"errors"

	"readinglist/internal/store"
	"readinglist/internal/validate"
)

// Status classifies a mutation attempt for the form layer.
type Status int

const (
	// StatusSuccess means the write committed; redirect the user.
	StatusSuccess Status = iota

	// StatusForbidden means the admin password was wrong.
	StatusForbidden

	// StatusBadInput means field validation, a name collision, or a
	// policy check failed; re-show the form with the submitted values.
	StatusBadInput

	// StatusNotFound means the referenced record does not exist.
	StatusNotFound

	// StatusFailed means the store reported an unexpected error.
	StatusFailed
)

// HTTPStatus maps a Status onto the response code used when the form is
// re-rendered instead of redirected.
func (s Status) HTTPStatus() int {
	switch s {
	case StatusForbidden:
		return 403
	case StatusBadInput:
		return 400
	case StatusNotFound:
		return 404
	case StatusFailed:
		return 500
	default:
		return 200
	}
}

// FormResult is everything a mutating form needs to decide between
// "commit and redirect" and "re-show the form": a status, display
// messages, and the field-scoped errors when validation failed. The
// submitted values themselves stay with the caller, which already holds
// the form it built the request from.
type FormResult struct {
	Status      Status
	ID          int
	Errors      []string
	FieldErrors validate.Errors
}

// Outcome translates a Service error into a FormResult. id is the created
// record's id for create operations and ignored otherwise.
func Outcome(id int, err error) FormResult {
	if err == nil {
		return FormResult{Status: StatusSuccess, ID: id}
	}

	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		return FormResult{Status: StatusBadInput, Errors: fieldErrs.Messages(), FieldErrors: fieldErrs}
	case errors.Is(err, ErrDenied):
		return FormResult{Status: StatusForbidden, Errors: []string{"Incorrect admin password"}}
	case errors.Is(err, ErrArchiveUndeletable):
		return FormResult{Status: StatusBadInput, Errors: []string{"The Archive category cannot be deleted."}}
	case errors.Is(err, store.ErrDuplicateName):
		return FormResult{Status: StatusBadInput, Errors: []string{"A category with this name already exists."}}
	case errors.Is(err, store.ErrCategoryMissing):
		return FormResult{Status: StatusBadInput, Errors: []string{"Selected category does not exist."}}
	case errors.Is(err, store.ErrNotFound):
		return FormResult{Status: StatusNotFound, Errors: []string{"Record not found."}}
	default:
		return FormResult{Status: StatusFailed, Errors: []string{"Something went wrong. Please try again."}}
	}
}
