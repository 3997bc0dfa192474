package solar

import "fmt"

// InvalidInputError reports a violated input contract: non-positive roof
// area, a missing or malformed irradiance signal, an unknown weather analysis
// mode. It is always surfaced to the caller, never defaulted away.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}
