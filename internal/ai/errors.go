package ai

import "fmt"

// Validation errors returned before any provider is invoked.
var (
	ErrBlankText        = fmt.Errorf("text is required")
	ErrBlankMessage     = fmt.Errorf("message is required")
	ErrUnknownOperation = fmt.Errorf("unknown operation")
)

// Kind classifies a provider failure. Every failure is terminal for the
// current call; nothing here is retried.
type Kind int

const (
	// KindUnconfigured means no credential was supplied for the provider.
	KindUnconfigured Kind = iota
	// KindUnreachable means the transport or the backend itself failed.
	KindUnreachable
	// KindEmptyResponse means the backend answered with no usable content.
	KindEmptyResponse
	// KindMalformedResponse means the backend answered with content that
	// violates the provider's response contract.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindUnconfigured:
		return "unconfigured"
	case KindUnreachable:
		return "unreachable"
	case KindEmptyResponse:
		return "empty response"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// ProviderError is the normalized failure shape for all backend calls. The
// wrapped error carries detail for logging; credential material never
// appears in it.
type ProviderError struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s provider: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
