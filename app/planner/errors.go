package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound             = errors.New("planner: not found")
	ErrConfirmationRequired = errors.New("planner: delete must be confirmed")
	ErrImmutable            = errors.New("planner: published posts cannot be changed")
	ErrInvalid              = errors.New("planner: invalid input")
	ErrFull                 = errors.New("planner: storage is full")
)

// ValidationError lists the offending fields of a rejected post or idea.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("planner: invalid %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Fields: fields}
}
