package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("there is no profile for this user")
	ErrSubRecordNotFound  = errors.New("profile entry not found")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationError lists every field of a request that failed validation, sorted by field name.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Param + ": " + f.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// newValidationError converts ozzo-validation field errors into a ValidationError.
// Any other error (a broken rule, not bad input) is returned wrapped as-is.
func newValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validating request: %w", err)
	}

	fields := make([]FieldError, 0, len(errs))
	for param, fieldErr := range errs {
		fields = append(fields, FieldError{Param: param, Msg: fieldErr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Param < fields[j].Param })

	return &ValidationError{Fields: fields}
}
