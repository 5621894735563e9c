package tailoring

import "fmt"

// InputError reports a missing or blank input. No backend call is made.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TailoringError represents any failure of the generation backend: transport
// errors, non-2xx responses, and malformed or empty payloads.
type TailoringError struct {
	Backend string
	Message string
	Cause   error
}

func (e *TailoringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring failed (%s): %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("tailoring failed (%s): %s", e.Backend, e.Message)
}

func (e *TailoringError) Unwrap() error {
	return e.Cause
}
