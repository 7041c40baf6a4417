package provider

import "fmt"

// ValidationError reports a provider spec that lacks a usable provider name.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "provider: invalid spec: " + e.Reason
}

// UnsupportedSpecError reports a spec value that is neither a string, a
// mapping, nor a descriptor.
type UnsupportedSpecError struct {
	Value any
}

func (e *UnsupportedSpecError) Error() string {
	return fmt.Sprintf("provider: unsupported spec of type %T; use a string, mapping, or descriptor", e.Value)
}
