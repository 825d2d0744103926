package llm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinels matched with errors.Is.
var (
	ErrProviderUnavailable   = errors.New("provider unavailable")
	ErrProviderCallFailed    = errors.New("provider call failed")
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
)

// errorBodyLimit caps how much of an error response is kept.
const errorBodyLimit = 200

// ProviderUnavailableError means no credential could be resolved.
type ProviderUnavailableError struct {
	Provider string
	EnvVar   string
}

func (e *ProviderUnavailableError) Error() (msg string) {
	msg = fmt.Sprintf("%s: %s has no API key (set %s)", ErrProviderUnavailable, e.Provider, e.EnvVar)
	return msg
}

// Is matches ErrProviderUnavailable.
func (e *ProviderUnavailableError) Is(target error) (ok bool) {
	ok = target == ErrProviderUnavailable
	return ok
}

// ProviderCallFailedError covers transport errors, timeouts, non-2xx
// statuses and responses without a completion.
type ProviderCallFailedError struct {
	Provider string
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	Err    error
}

func (e *ProviderCallFailedError) Error() (msg string) {
	msg = fmt.Sprintf("%s: %s: %v", ErrProviderCallFailed, e.Provider, e.Err)
	return msg
}

// Is matches ErrProviderCallFailed.
func (e *ProviderCallFailedError) Is(target error) (ok bool) {
	ok = target == ErrProviderCallFailed
	return ok
}

func (e *ProviderCallFailedError) Unwrap() (err error) {
	err = e.Err
	return err
}

// AllProvidersExhaustedError is returned when every provider failed or was
// unavailable. Last is the final provider's error.
type AllProvidersExhaustedError struct {
	Tried []string
	Last  error
}

func (e *AllProvidersExhaustedError) Error() (msg string) {
	msg = fmt.Sprintf("%s (tried %s)", ErrAllProvidersExhausted, strings.Join(e.Tried, ", "))
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

// Is matches ErrAllProvidersExhausted.
func (e *AllProvidersExhaustedError) Is(target error) (ok bool) {
	ok = target == ErrAllProvidersExhausted
	return ok
}

func (e *AllProvidersExhaustedError) Unwrap() (err error) {
	err = e.Last
	return err
}

func truncate(s string, n int) (out string) {
	out = s
	if len(out) > n {
		out = out[:n]
	}
	return out
}
