package cloudflare

import (
	"fmt"

	"github.com/j-veylop/zonetls/internal/models"
)

// FailureKind classifies why a single statistics query failed.
type FailureKind int

const (
	// FailureTransport covers DNS, connection and timeout errors.
	FailureTransport FailureKind = iota
	// FailureHTTPStatus is a non-2xx response.
	FailureHTTPStatus
	// FailureDecode is a response body that did not parse.
	FailureDecode
	// FailureAPIErrors is a well-formed response carrying a non-null
	// errors payload.
	FailureAPIErrors
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureHTTPStatus:
		return "http-status"
	case FailureDecode:
		return "decode"
	case FailureAPIErrors:
		return "api-errors"
	default:
		return "unknown"
	}
}

// QueryFailure describes a failed per-chunk statistics query. It is always
// returned as a value, never raised as a fatal condition; the caller treats
// the chunk as contributing zero data.
type QueryFailure struct {
	Kind   FailureKind
	Zone   string
	Window models.TimeWindow
	Err    error
}

func (f *QueryFailure) Error() string {
	if f.Zone == "" {
		return fmt.Sprintf("query failed (%s): %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("query failed (%s) for zone %s window %s: %v",
		f.Kind, f.Zone, f.Window, f.Err)
}

func (f *QueryFailure) Unwrap() error {
	return f.Err
}

// DirectoryError is returned when both zone discovery mechanisms failed.
type DirectoryError struct {
	Primary  error
	Fallback error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("zone discovery failed: listing endpoint: %v; graphql fallback: %v",
		e.Primary, e.Fallback)
}
