package mood

import (
	"errors"

	apperrors "github.com/yanqian/mood-engine/pkg/errors"
)

// Error codes carried by service failures.
const (
	CodeTransport = "transport_error"
	CodeAuth      = "auth_error"
	CodeSchema    = "schema_error"
)

// Kind distinguishes why an analysis call failed.
type Kind string

const (
	KindNone      Kind = ""
	KindTransport Kind = "transport"
	KindAuth      Kind = "auth"
	KindSchema    Kind = "schema"
)

// KindOf classifies err. Errors that are not service failures return KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case apperrors.IsCode(err, CodeAuth):
		return KindAuth
	case apperrors.IsCode(err, CodeSchema):
		return KindSchema
	case apperrors.IsCode(err, CodeTransport):
		return KindTransport
	default:
		return KindNone
	}
}

// IsServiceError reports whether err is one of the three service failure kinds.
func IsServiceError(err error) bool {
	return KindOf(err) != KindNone
}

// TransportError marks an unreachable endpoint or a non-2xx response.
func TransportError(message string, err error) error {
	return apperrors.Wrap(CodeTransport, message, err)
}

// AuthError marks a missing or rejected credential.
func AuthError(message string, err error) error {
	return apperrors.Wrap(CodeAuth, message, err)
}

// SchemaError marks a response that does not match the declared schema.
func SchemaError(message string, err error) error {
	return apperrors.Wrap(CodeSchema, message, err)
}

type temporaryError struct {
	err error
}

func (e temporaryError) Error() string   { return e.err.Error() }
func (e temporaryError) Unwrap() error   { return e.err }
func (e temporaryError) Temporary() bool { return true }

// Temporary flags err as safe to retry.
func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return temporaryError{err: err}
}

// IsTemporary reports whether err, or anything it wraps, was flagged with Temporary.
func IsTemporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
