package completion

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrMalformedResponse = errors.New("invalid response from inference API")
)

// TransportError wraps connection failures and timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("inference request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx reply. Body holds a bounded snippet.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("inference API returned status code %d", e.StatusCode)
}

const (
	KindMissingCredential = "missing_credential"
	KindTransport         = "transport"
	KindHTTPStatus        = "http_status"
	KindMalformedResponse = "malformed_response"
	KindUnknown           = "unknown"
)

// Kind classifies err into one of the Kind* labels. A nil error yields "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *HTTPStatusError
	var transportErr *TransportError
	switch {
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}
