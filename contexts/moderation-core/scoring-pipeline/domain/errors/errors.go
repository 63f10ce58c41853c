package errors

import "errors"

var (
	ErrGatewayUnavailable     = errors.New("scoring gateway unavailable")
	ErrInvalidGatewayResponse = errors.New("invalid scoring gateway response")
	ErrUnsupportedJobKind     = errors.New("unsupported scoring job kind")
	ErrMalformedJob           = errors.New("malformed scoring job payload")
)
