package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when the provider yields no usable price history.
	ErrInsufficientData = errors.New("insufficient price history")
	// ErrModelUnavailable is returned when no language model client or credentials are configured.
	ErrModelUnavailable = errors.New("language model unavailable")
)

// DataFetchError reports a failed market-data call for a ticker.
type DataFetchError struct {
	Ticker string
	Op     string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s for %s: %v", e.Op, e.Ticker, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// ModelCallError wraps a failure returned by the language model provider.
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }
