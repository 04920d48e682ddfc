package transport

import "fmt"

// Kind classifies a transport failure. Callers branch on the kind, never on
// raw status codes: 401 is a global session-clearing event, other 4xx are
// form-level problems, 5xx are retry-later, and network failures mean no
// response was received at all.
type Kind string

const (
	// KindUnauthorized is a 401. By the time the caller sees it the session
	// store has already been cleared.
	KindUnauthorized Kind = "unauthorized"
	// KindClient is any 4xx other than 401 without field-level detail.
	KindClient Kind = "client_error"
	// KindValidation is a 4xx carrying a {field: [messages]} map, surfaced
	// per-field on the originating form.
	KindValidation Kind = "validation_error"
	// KindServer is a response with status >= 500.
	KindServer Kind = "server_error"
	// KindNetwork means no response was received.
	KindNetwork Kind = "network_unreachable"
	// KindProtocol means the response arrived but its body did not match the
	// declared schema.
	KindProtocol Kind = "protocol_error"
)

// Error is the typed failure returned by the transport. Fields is only set
// for KindValidation.
type Error struct {
	Kind       Kind
	StatusCode int // 0 for network failures
	Message    string
	Fields     map[string][]string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the classification of err, or "" if err did not originate
// from the transport.
func KindOf(err error) Kind {
	if te, ok := asTransportError(err); ok {
		return te.Kind
	}
	return ""
}

// FieldErrors returns the per-field validation messages carried by err, if
// any.
func FieldErrors(err error) map[string][]string {
	if te, ok := asTransportError(err); ok {
		return te.Fields
	}
	return nil
}

func IsUnauthorized(err error) bool       { return KindOf(err) == KindUnauthorized }
func IsValidation(err error) bool         { return KindOf(err) == KindValidation }
func IsServerError(err error) bool        { return KindOf(err) == KindServer }
func IsNetworkUnreachable(err error) bool { return KindOf(err) == KindNetwork }
func IsProtocolError(err error) bool      { return KindOf(err) == KindProtocol }

// IsClientError reports whether err is any non-401 4xx, validation included.
func IsClientError(err error) bool {
	k := KindOf(err)
	return k == KindClient || k == KindValidation
}

func asTransportError(err error) (*Error, bool) {
	for err != nil {
		if te, ok := err.(*Error); ok {
			return te, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
