package ai

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	MissingCredential    ErrorKind = "MissingCredential"
	NetworkOrHTTPFailure ErrorKind = "NetworkOrHTTPFailure"
	MalformedResponse    ErrorKind = "MalformedResponse"
)

// ProviderError is returned for every failed generation. Results are never substituted.
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func NewProviderError(kind ErrorKind, provider string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AsProviderError returns the ProviderError at the root of err, if any.
func AsProviderError(err error) (*ProviderError, bool) {
	pErr, ok := errors.Cause(err).(*ProviderError)
	return pErr, ok
}
