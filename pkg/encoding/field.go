package encoding

import (
	"fmt"

	"github.com/mapd/vlcompile/pkg/vega"
)

// FieldDefinition binds one encoding channel to a SQL field, with an
// optional scale and legend.
type FieldDefinition struct {
	prop        string
	field       string
	measurement *MeasurementType

	scale     *ScaleDefinition
	hasScale  bool
	legend    *LegendDefinition
	hasLegend bool

	err error
}

// NewFieldDefinition parses the raw definition of channel prop. Errors are
// recorded and returned by Materialize.
func NewFieldDefinition(prop string, raw any) *FieldDefinition {
	f := &FieldDefinition{prop: prop}
	m, ok := asObject(raw)
	if !ok {
		f.err = definitionErrorf(prop, "field definition must be an object, got %s", typeName(raw))
		return f
	}

	field, ok := m["field"].(string)
	if !ok {
		f.err = definitionErrorf(prop, "\"field\" must be a string, got %s", typeName(m["field"]))
		return f
	}
	f.field = field

	if v, ok := m["type"]; ok {
		str, ok := v.(string)
		if !ok {
			f.err = definitionErrorf(prop, "\"type\" must be a string, got %s", typeName(v))
			return f
		}
		mt, err := ParseMeasurementType(str)
		if err != nil {
			f.err = definitionErrorf(prop, "%s", err)
			return f
		}
		f.measurement = &mt
	}

	if v, ok := m["scale"]; ok {
		f.hasScale = true
		if v != nil {
			f.scale = NewScaleDefinition(prop, v)
		}
	}

	if v, ok := m["legend"]; ok {
		f.hasLegend = true
		if v != nil {
			f.legend = NewLegendDefinition(prop, v)
		}
	}
	return f
}

// Field returns the SQL field expression.
func (f *FieldDefinition) Field() string { return f.field }

// Prop returns the channel name.
func (f *FieldDefinition) Prop() string { return f.prop }

// Err returns the error recorded while parsing, if any.
func (f *FieldDefinition) Err() error { return f.err }

// MeasurementType resolves the field's measurement type: the explicit
// type, else the type forced by an explicit scale type, else the
// descriptor's default.
func (f *FieldDefinition) MeasurementType(desc PropDescriptor) MeasurementType {
	if f.measurement != nil {
		return *f.measurement
	}
	if f.scale != nil && f.scale.err == nil && f.scale.typeSet {
		switch f.scale.Kind() {
		case Continuous, Discretizing:
			return Quantitative
		case Discrete:
			return Nominal
		}
	}
	return desc.DefaultMeasurementType()
}

// Materialize compiles the field into out: a project SQL transform, the
// scale and legend if any, and a mark property for every mark property
// name of desc.
func (f *FieldDefinition) Materialize(ctx *Context, desc PropDescriptor, out *vega.PropertyOutputState) error {
	if f.err != nil {
		return f.err
	}
	if f.scale != nil && !desc.CanHaveScaleDefinition() {
		return fmt.Errorf("property %q does not work with scales", f.prop)
	}

	m := f.MeasurementType(desc)
	if err := desc.ValidateMeasurementType(m); err != nil {
		return err
	}

	out.AddSQLParserTransform(vega.Project(f.field, f.prop))

	scale := f.scale
	if !f.hasScale && desc.CanHaveScaleDefinition() {
		if raw := desc.BuildDefaultScaleDefinition(m); raw != nil {
			scale = NewScaleDefinition(f.prop, raw)
		}
	}

	legend := f.legend
	switch {
	case legend != nil && !desc.IsColor():
		return fmt.Errorf("property %q: legends are currently only supported for colors", f.prop)
	case legend != nil && scale == nil:
		return fmt.Errorf("property %q: a legend requires a scale", f.prop)
	case !f.hasLegend && scale != nil && desc.IsColor():
		legend = NewLegendDefinition(f.prop, nil)
	}

	var scaleName string
	if scale != nil {
		name, err := scale.Materialize(ctx, desc, m, out)
		if err != nil {
			return err
		}
		scaleName = name
	}

	if legend != nil {
		if err := legend.Materialize(f.field, scaleName, out); err != nil {
			return err
		}
	}

	for _, name := range desc.VegaMarkPropNames() {
		if err := out.AddMarkProperty(name, vega.MarkProperty{Field: f.prop, Scale: scaleName}); err != nil {
			return fmt.Errorf("property %q: %w", f.prop, err)
		}
	}
	return nil
}
