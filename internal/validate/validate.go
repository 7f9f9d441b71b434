// Package validate applies declarative field rules to submitted form
// values. Rules are grouped per entity kind and evaluated in declaration
// order, so error lists come back in a stable, form-shaped order. The
// package never touches the database and reports failures as data rather
// than panics, letting the caller re-render the form with the original
// input intact.
package validate

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Kind selects which rule table applies to a submission.
type Kind string

const (
	KindBook     Kind = "book"
	KindCategory Kind = "category"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field failures; empty means valid. It
// implements error so the orchestrator can return it through a plain
// error value.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := e.Messages()
	return strings.Join(msgs, "; ")
}

// Messages returns the display messages in rule order.
func (e Errors) Messages() []string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return msgs
}

// rule binds one form field to its checks. Optional fields whose trimmed
// value is empty are treated as absent and skip their checks entirely.
type rule struct {
	field    string
	optional bool
	checks   []validation.Rule
}

// intBetween validates that a string parses as a whole number within
// [min, max] inclusive.
func intBetween(min, max int, msg string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		n, err := strconv.Atoi(s)
		if err != nil || n < min || n > max {
			return errors.New(msg)
		}
		return nil
	})
}

// ruleTables is the whole validation contract: one ordered table per
// entity kind.
var ruleTables = map[Kind][]rule{
	KindBook: {
		{field: "title", checks: []validation.Rule{
			validation.Required.Error("Title is required and must be between 1 and 255 characters."),
			validation.RuneLength(1, 255).Error("Title is required and must be between 1 and 255 characters."),
		}},
		{field: "author", checks: []validation.Rule{
			validation.Required.Error("Author is required and must be between 1 and 255 characters."),
			validation.RuneLength(1, 255).Error("Author is required and must be between 1 and 255 characters."),
		}},
		{field: "category_id", checks: []validation.Rule{
			validation.Required.Error("A category must be selected."),
			intBetween(1, 1<<31-1, "A category must be selected."),
		}},
		{field: "cover_image_url", optional: true, checks: []validation.Rule{
			is.URL.Error("Cover image must be a valid URL."),
		}},
		{field: "genre", optional: true, checks: []validation.Rule{
			validation.RuneLength(0, 150).Error("Genre must be less than 150 characters."),
		}},
		{field: "rating", optional: true, checks: []validation.Rule{
			intBetween(0, 10, "Rating must be a whole number between 0 and 10."),
		}},
		{field: "review", optional: true, checks: []validation.Rule{
			validation.RuneLength(0, 6000).Error("Review must be less than 6000 characters."),
		}},
		{field: "summary", optional: true, checks: []validation.Rule{
			validation.RuneLength(0, 1000).Error("Summary must be less than 1000 characters."),
		}},
	},
	KindCategory: {
		{field: "name", checks: []validation.Rule{
			validation.Required.Error("Category name is required and must be between 1 and 100 characters."),
			validation.RuneLength(1, 100).Error("Category name is required and must be between 1 and 100 characters."),
		}},
		{field: "description", optional: true, checks: []validation.Rule{
			validation.RuneLength(0, 500).Error("Description must be less than 500 characters."),
		}},
	},
}

// Fields validates submitted form values against the rule table for kind.
// Every value is trimmed before its checks run; a trimmed-empty optional
// value counts as absent. The returned list preserves table order with at
// most one entry per field.
func Fields(kind Kind, form map[string]string) Errors {
	var errs Errors
	for _, r := range ruleTables[kind] {
		value := strings.TrimSpace(form[r.field])
		if r.optional && value == "" {
			continue
		}
		if err := validation.Validate(value, r.checks...); err != nil {
			errs = append(errs, FieldError{Field: r.field, Message: err.Error()})
		}
	}
	return errs
}
