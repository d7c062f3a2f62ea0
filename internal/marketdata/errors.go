package marketdata

import "errors"

// ErrNoData means the provider answered but has no bars for the symbol.
// Callers use it to distinguish a bad symbol from a transport failure.
var ErrNoData = errors.New("no market data for symbol")

// ProviderError wraps a failure with the provider that produced it.
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
