package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// FieldError is one violation, located by a field path such as
// incomeSources[2].amount. Kind is a model sentinel when the violation maps
// to a domain error, nil otherwise.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    error  `json:"-"`
}

func (fe FieldError) String() string {
	if fe.Field == "" {
		return fe.Message
	}
	return fe.Field + ": " + fe.Message
}

// Result accumulates every violation found in an input bundle.
type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

// Messages returns the violations as located strings.
func (r Result) Messages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		messages = append(messages, fe.String())
	}
	return messages
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Error is returned when a calculation is refused because the input is
// invalid. It matches model.ErrInvalidInput and the kind of every violation
// under errors.Is.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		messages = append(messages, fe.String())
	}
	return fmt.Sprintf("%s: %s", model.ErrInvalidInput, strings.Join(messages, "; "))
}

// Unwrap exposes model.ErrInvalidInput and each distinct violation kind.
func (e *Error) Unwrap() []error {
	errs := []error{model.ErrInvalidInput}
	seen := map[error]bool{}
	for _, fe := range e.Errors {
		if fe.Kind != nil && !seen[fe.Kind] {
			seen[fe.Kind] = true
			errs = append(errs, fe.Kind)
		}
	}
	return errs
}

type collector struct {
	errs []FieldError
}

func (c *collector) add(field string, kind error, format string, args ...any) {
	c.errs = append(c.errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

func (c *collector) result() Result {
	return Result{IsValid: len(c.errs) == 0, Errors: c.errs}
}
