package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindFetch       ErrorKind = "fetch_error"
	KindGeneration  ErrorKind = "generation_error"
	KindPersistence ErrorKind = "persistence_error"
	KindQuery       ErrorKind = "query_error"
)

// PipelineError is returned by the extraction, generation and storage
// components. Op names the step that failed.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Sentinels for errors.Is; they match any PipelineError of the same kind.
var (
	ErrFetch       = &PipelineError{Kind: KindFetch}
	ErrGeneration  = &PipelineError{Kind: KindGeneration}
	ErrPersistence = &PipelineError{Kind: KindPersistence}
	ErrQuery       = &PipelineError{Kind: KindQuery}
)

func (e *PipelineError) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Is reports whether target is a PipelineError of the same kind.
func (e *PipelineError) Is(target error) bool {
	var t *PipelineError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, op string, err error) error {
	// Already classified errors keep their original kind.
	var pe *PipelineError
	if errors.As(err, &pe) && pe.Kind == kind {
		return err
	}
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

// FetchError wraps a failure to fetch or extract a page.
func FetchError(op string, err error) error { return newError(KindFetch, op, err) }

// GenerationError wraps a failed completion request.
func GenerationError(op string, err error) error { return newError(KindGeneration, op, err) }

// PersistenceError wraps a failed store write.
func PersistenceError(op string, err error) error { return newError(KindPersistence, op, err) }

// QueryError wraps a failed store read.
func QueryError(op string, err error) error { return newError(KindQuery, op, err) }

// KindOf returns the kind of the first PipelineError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
