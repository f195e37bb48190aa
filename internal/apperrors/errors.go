// Package apperrors defines the error kinds surfaced by the repair shop services.
//
// Every error returned by a service operation is one of:
//   - NotFound: a referenced entity does not exist
//   - BadRequest: the command violates a domain rule (illegal transition, bad input)
//   - Internal: an unexpected collaborator failure, reported with a generic message
//
// Kinds are attached with errors.Mark from github.com/cockroachdb/errors, so callers
// test them with errors.Is(err, apperrors.ErrNotFound) and friends.
package apperrors

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/motorepair/admin/internal/logger"
)

// Kind classifies an error for callers that need to map it (CLI exit codes, HTTP status).
type Kind int

const (
	// KindInternal is any unexpected failure
	KindInternal Kind = iota
	// KindNotFound means the referenced entity is absent
	KindNotFound
	// KindBadRequest means the request broke a domain rule
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

// Reference errors used as marks
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
)

// NotFound builds a NotFound error with a descriptive message
func NotFound(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrNotFound)
}

// BadRequest builds a BadRequest error with a descriptive message
func BadRequest(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrBadRequest)
}

// Internal hides cause behind msg. The cause stays attached as a secondary error so
// it shows up in verbose (%+v) formatting but never in Error().
func Internal(cause error, msg string) error {
	err := errors.NewWithDepth(1, msg)
	if cause != nil {
		err = errors.WithSecondaryError(err, cause)
	}
	return errors.Mark(err, ErrInternal)
}

// IsNotFound reports whether err carries the NotFound kind
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest reports whether err carries the BadRequest kind
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsDomain reports whether err is a NotFound or BadRequest error
func IsDomain(err error) bool {
	return IsNotFound(err) || IsBadRequest(err)
}

// KindOf classifies err. Unmarked errors are Internal.
func KindOf(err error) Kind {
	switch {
	case IsNotFound(err):
		return KindNotFound
	case IsBadRequest(err):
		return KindBadRequest
	default:
		return KindInternal
	}
}

// Boundary is applied where a service operation returns to its caller. Domain and
// already-internal errors pass through untouched; anything else is logged with its
// details and replaced by an Internal error carrying msg.
func Boundary(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) || errors.Is(err, ErrInternal) {
		return err
	}

	logger.ErrorWithFields(msg, map[string]interface{}{
		"error": fmt.Sprintf("%+v", err),
	})
	return Internal(err, msg)
}
