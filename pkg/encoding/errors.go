package encoding

import "fmt"

// DefinitionError reports a malformed field, scale or legend definition.
// It is detected when the definition is built and returned by the first
// Materialize call.
type DefinitionError struct {
	Prop    string
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid definition for property %q: %s", e.Prop, e.Message)
}

func definitionErrorf(prop, format string, args ...any) *DefinitionError {
	return &DefinitionError{Prop: prop, Message: fmt.Sprintf(format, args...)}
}

// CompatibilityError reports a scale type that cannot encode the field's
// measurement type.
type CompatibilityError struct {
	Prop        string
	Scale       ScaleType
	Measurement MeasurementType
	Required    string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("property %q: %s scale %q cannot encode %s data, it requires %s data",
		e.Prop, e.Scale.Kind(), e.Scale, e.Measurement, e.Required)
}
