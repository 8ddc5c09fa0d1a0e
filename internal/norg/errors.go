package norg

import "fmt"

// ConfigurationError is an invalid setting. It's raised before any hit
// is read so a bad run never leaves partial output behind.
type ConfigurationError struct {
	// Setting is the name of the offending setting
	Setting string

	// Reason for the rejection
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Setting, e.Reason)
}

// InputError is a malformed hit or annotation record. The run is aborted
// rather than emitting a chain set built from inconsistent input.
type InputError struct {
	// Record is a short description of the offending record
	Record string

	// Reason for the rejection
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("bad input record %s: %s", e.Record, e.Reason)
}
