// Package validation checks configuration and descriptor structs with
// go-playground/validator struct tags. Failures are reported as Setup
// client errors naming every offending field.
package validation
