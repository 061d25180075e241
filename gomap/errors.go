package gomap

import (
	"errors"
	"fmt"
)

// FieldError reports a field that could not be mapped.
type FieldError struct {
	Path string // Path of the field, e.g. "/people[1]/age"
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("field %s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Report collects the fields skipped during a mapping.
type Report struct {
	Errors []*FieldError
}

// OK reports whether every field was mapped.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err joins the field errors, nil when there are none.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
