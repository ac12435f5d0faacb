package services

import "fmt"

// ValidationError reports a missing or malformed request field. Handlers map
// it to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// ConfigurationError reports missing third-party credentials or settings.
// Handlers map it to HTTP 500.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}
