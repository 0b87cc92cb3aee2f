package encoding

import (
	"github.com/mapd/vlcompile/pkg/vega"
)

// LegendOptions are the user-settable legend properties.
type LegendOptions struct {
	Title  *string `mapstructure:"title"`
	Open   *bool   `mapstructure:"open"`
	Locked *bool   `mapstructure:"locked"`
}

// LegendDefinition is the legend attached to a scaled color field.
type LegendDefinition struct {
	prop    string
	options LegendOptions
	err     error
}

// NewLegendDefinition decodes a raw legend definition. A nil raw value
// yields the default legend.
func NewLegendDefinition(prop string, raw any) *LegendDefinition {
	l := &LegendDefinition{prop: prop}
	if raw == nil {
		return l
	}
	m, ok := asObject(raw)
	if !ok {
		l.err = definitionErrorf(prop, "legend must be an object, got %s", typeName(raw))
		return l
	}

	if err := decodeStrict(m, &l.options); err != nil {
		l.err = definitionErrorf(prop, "invalid legend: %s", err)
	}
	return l
}

// Materialize emits the legend for scaleName. The title defaults to the
// field expression.
func (l *LegendDefinition) Materialize(field, scaleName string, out *vega.PropertyOutputState) error {
	if l.err != nil {
		return l.err
	}
	legend := vega.Legend{Scale: scaleName, Title: field, Open: true}
	if l.options.Title != nil {
		legend.Title = *l.options.Title
	}
	if l.options.Open != nil {
		legend.Open = *l.options.Open
	}
	if l.options.Locked != nil {
		legend.Locked = *l.options.Locked
	}
	out.AddLegendForProperty(l.prop, legend)
	return nil
}
