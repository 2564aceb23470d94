package forecast

import "fmt"

// ProviderError classifies an upstream weather API failure: non-success
// status, transport error, timeout, or an undecodable payload. It never
// reaches the client; the service substitutes synthetic data instead.
type ProviderError struct {
	Provider   string
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
}

func providerErr(provider string, status int, detail string) error {
	return &ProviderError{Provider: provider, StatusCode: status, Detail: detail}
}
