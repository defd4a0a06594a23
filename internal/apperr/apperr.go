package apperr

import (
  "errors"
  "fmt"
  "net/http"
)

// Kind is the stable error classification surfaced to API callers.
type Kind string

const (
  KindIngestion            Kind = "IngestionError"
  KindSegmentation         Kind = "SegmentationError"
  KindGeneration           Kind = "GenerationError"
  KindConstraintViolation  Kind = "ConstraintViolationError"
  KindUnparsableExpression Kind = "UnparsableExpressionError"
  KindBadRequest           Kind = "BadRequestError"
  KindInternal             Kind = "InternalError"
)

type Error struct {
  Kind Kind
  Err  error
}

func (e *Error) Error() string {
  if e == nil {
    return ""
  }
  if e.Err != nil {
    return e.Err.Error()
  }
  return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
  return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Wrap(kind Kind, err error) *Error {
  return &Error{Kind: kind, Err: err}
}

// KindOf reports the classification of err, KindInternal when untagged.
func KindOf(err error) Kind {
  var ae *Error
  if errors.As(err, &ae) {
    return ae.Kind
  }
  return KindInternal
}

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(err error) int {
  switch KindOf(err) {
  case KindIngestion, KindUnparsableExpression, KindBadRequest:
    return http.StatusBadRequest
  case KindConstraintViolation:
    return http.StatusUnprocessableEntity
  default:
    return http.StatusInternalServerError
  }
}
