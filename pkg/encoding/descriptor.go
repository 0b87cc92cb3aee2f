package encoding

import (
	"fmt"
	"slices"
	"sort"
)

// PropDescriptor describes a visual channel: whether it can carry a scale,
// its default measurement type and the mark properties it maps to.
type PropDescriptor interface {
	PropName() string
	CanHaveScaleDefinition() bool
	IsColor() bool
	VegaMarkPropNames() []string
	DefaultMeasurementType() MeasurementType
	ValidateMeasurementType(m MeasurementType) error
	// BuildDefaultScaleDefinition returns the raw scale definition used when
	// a field gives none, or nil for no implicit scale.
	BuildDefaultScaleDefinition(m MeasurementType) map[string]any
}

// Descriptor is the standard PropDescriptor implementation.
type Descriptor struct {
	Name        string
	Scalable    bool
	Color       bool
	MarkProps   []string
	DefaultType MeasurementType
	// Allowed lists legal measurement types; empty allows all.
	Allowed      []MeasurementType
	DefaultScale func(m MeasurementType) map[string]any
}

var _ PropDescriptor = (*Descriptor)(nil)

// PropName implements PropDescriptor.
func (d *Descriptor) PropName() string { return d.Name }

// CanHaveScaleDefinition implements PropDescriptor.
func (d *Descriptor) CanHaveScaleDefinition() bool { return d.Scalable }

// IsColor implements PropDescriptor.
func (d *Descriptor) IsColor() bool { return d.Color }

// VegaMarkPropNames implements PropDescriptor.
func (d *Descriptor) VegaMarkPropNames() []string {
	if len(d.MarkProps) == 0 {
		return []string{d.Name}
	}
	return d.MarkProps
}

// DefaultMeasurementType implements PropDescriptor.
func (d *Descriptor) DefaultMeasurementType() MeasurementType { return d.DefaultType }

// ValidateMeasurementType implements PropDescriptor.
func (d *Descriptor) ValidateMeasurementType(m MeasurementType) error {
	if len(d.Allowed) == 0 || slices.Contains(d.Allowed, m) {
		return nil
	}
	return fmt.Errorf("property %q does not support %s data", d.Name, m)
}

// BuildDefaultScaleDefinition implements PropDescriptor.
func (d *Descriptor) BuildDefaultScaleDefinition(m MeasurementType) map[string]any {
	if !d.Scalable || d.DefaultScale == nil {
		return nil
	}
	return d.DefaultScale(m)
}

// Default palettes for implicit color scales.
var (
	QuantitativePalette = []any{"#115f9a", "#1984c5", "#22a7f0", "#48b5c4", "#76c68f"}
	CategoricalPalette  = []any{"#ea5545", "#bdcf32", "#ef9b20", "#87bc45", "#27aeef", "#b33dc6"}
)

func defaultColorScale(m MeasurementType) map[string]any {
	switch m {
	case Quantitative:
		return map[string]any{
			"type":   ScaleLinear.String(),
			"domain": DomainAuto,
			"range":  slices.Clone(QuantitativePalette),
		}
	case Nominal, Ordinal:
		return map[string]any{
			"type":   ScaleOrdinal.String(),
			"domain": DomainAuto,
			"range":  slices.Clone(CategoricalPalette),
		}
	default:
		return nil
	}
}

func linearAutoScale(rng ...any) func(MeasurementType) map[string]any {
	return func(m MeasurementType) map[string]any {
		if m != Quantitative {
			return nil
		}
		return map[string]any{
			"type":   ScaleLinear.String(),
			"domain": DomainAuto,
			"range":  slices.Clone(rng),
		}
	}
}

var numericOnly = []MeasurementType{Quantitative, Temporal}

// ColorDescriptor returns a color channel descriptor writing markProp.
func ColorDescriptor(name, markProp string) *Descriptor {
	return &Descriptor{
		Name:         name,
		Scalable:     true,
		Color:        true,
		MarkProps:    []string{markProp},
		DefaultType:  Nominal,
		DefaultScale: defaultColorScale,
	}
}

// StandardDescriptors returns the built-in channel descriptors keyed by
// channel name.
func StandardDescriptors() Descriptors {
	return Descriptors{
		"x": &Descriptor{Name: "x", Scalable: true, MarkProps: []string{"x"}, DefaultType: Quantitative},
		"y": &Descriptor{Name: "y", Scalable: true, MarkProps: []string{"y"}, DefaultType: Quantitative},

		"color":       ColorDescriptor("color", "fillColor"),
		"fillColor":   ColorDescriptor("fillColor", "fillColor"),
		"strokeColor": ColorDescriptor("strokeColor", "strokeColor"),

		"size": &Descriptor{
			Name: "size", Scalable: true, MarkProps: []string{"size"},
			DefaultType: Quantitative, Allowed: numericOnly,
			DefaultScale: linearAutoScale(3, 10),
		},
		"opacity": &Descriptor{
			Name: "opacity", Scalable: true, MarkProps: []string{"opacity"},
			DefaultType: Quantitative, Allowed: numericOnly,
			DefaultScale: linearAutoScale(0, 1),
		},
		"orientation": &Descriptor{
			Name: "orientation", MarkProps: []string{"angle"},
			DefaultType: Quantitative, Allowed: numericOnly,
		},
		"angle": &Descriptor{
			Name: "angle", MarkProps: []string{"angle"},
			DefaultType: Quantitative, Allowed: numericOnly,
		},
	}
}

// Descriptors maps channel names to descriptors.
type Descriptors map[string]PropDescriptor

// Lookup returns the descriptor for channel.
func (d Descriptors) Lookup(channel string) (PropDescriptor, error) {
	desc, ok := d[channel]
	if !ok {
		return nil, fmt.Errorf("unknown encoding channel %q, must be one of %v", channel, d.Names())
	}
	return desc, nil
}

// Names returns the sorted channel names.
func (d Descriptors) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
