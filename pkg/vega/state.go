package vega

import (
	"fmt"
)

// PropertyOutputState accumulates everything compiled for one layer. It is
// owned by a single compilation pass and is not safe for concurrent use.
type PropertyOutputState struct {
	scales     []Scale
	transforms []Transform
	markNames  []string
	marks      map[string]MarkProperty
	legends    []Legend
	sql        []SQLTransform
}

// NewPropertyOutputState creates an empty output state.
func NewPropertyOutputState() *PropertyOutputState {
	return &PropertyOutputState{marks: make(map[string]MarkProperty)}
}

// AddScale records a scale. Scale names are unique per layer.
func (s *PropertyOutputState) AddScale(scale Scale) error {
	for _, existing := range s.scales {
		if existing.Name == scale.Name {
			return fmt.Errorf("scale %q already exists", scale.Name)
		}
	}
	s.scales = append(s.scales, scale)
	return nil
}

// AddTransform records a data transform. Transform names are unique per
// layer.
func (s *PropertyOutputState) AddTransform(t Transform) error {
	for _, existing := range s.transforms {
		if existing.Name == t.Name {
			return fmt.Errorf("transform %q already exists", t.Name)
		}
	}
	s.transforms = append(s.transforms, t)
	return nil
}

// AddMarkProperty records the mark property name.
func (s *PropertyOutputState) AddMarkProperty(name string, prop MarkProperty) error {
	if _, ok := s.marks[name]; ok {
		return fmt.Errorf("mark property %q already exists", name)
	}
	if s.marks == nil {
		s.marks = make(map[string]MarkProperty)
	}
	s.marks[name] = prop
	s.markNames = append(s.markNames, name)
	return nil
}

// AddSQLParserTransform records a transform of the layer's SQL.
func (s *PropertyOutputState) AddSQLParserTransform(t SQLTransform) {
	s.sql = append(s.sql, t)
}

// AddLegendForProperty records the legend of an encoded property.
func (s *PropertyOutputState) AddLegendForProperty(prop string, legend Legend) {
	legend.Prop = prop
	s.legends = append(s.legends, legend)
}

// Scales returns the recorded scales in insertion order.
func (s *PropertyOutputState) Scales() []Scale { return s.scales }

// Transforms returns the recorded transforms in insertion order.
func (s *PropertyOutputState) Transforms() []Transform { return s.transforms }

// MarkProperty returns the mark property recorded under name.
func (s *PropertyOutputState) MarkProperty(name string) (MarkProperty, bool) {
	mp, ok := s.marks[name]
	return mp, ok
}

// MarkPropertyNames returns mark property names in insertion order.
func (s *PropertyOutputState) MarkPropertyNames() []string { return s.markNames }

// Legends returns the recorded legends.
func (s *PropertyOutputState) Legends() []Legend { return s.legends }

// SQLTransforms returns the recorded SQL transforms.
func (s *PropertyOutputState) SQLTransforms() []SQLTransform { return s.sql }

// Scale returns the scale with the given name.
func (s *PropertyOutputState) Scale(name string) (Scale, bool) {
	for _, sc := range s.scales {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scale{}, false
}

// Transform returns the transform with the given name.
func (s *PropertyOutputState) Transform(name string) (Transform, bool) {
	for _, t := range s.transforms {
		if t.Name == name {
			return t, true
		}
	}
	return Transform{}, false
}

// Merge appends everything recorded in other. Name conflicts are errors
// and leave s unchanged.
func (s *PropertyOutputState) Merge(other *PropertyOutputState) error {
	for _, sc := range other.scales {
		if _, ok := s.Scale(sc.Name); ok {
			return fmt.Errorf("scale %q already exists", sc.Name)
		}
	}
	for _, t := range other.transforms {
		if _, ok := s.Transform(t.Name); ok {
			return fmt.Errorf("transform %q already exists", t.Name)
		}
	}
	for _, name := range other.markNames {
		if _, ok := s.marks[name]; ok {
			return fmt.Errorf("mark property %q already exists", name)
		}
	}

	s.scales = append(s.scales, other.scales...)
	s.transforms = append(s.transforms, other.transforms...)
	for _, name := range other.markNames {
		_ = s.AddMarkProperty(name, other.marks[name])
	}
	s.legends = append(s.legends, other.legends...)
	s.sql = append(s.sql, other.sql...)
	return nil
}

// Spec snapshots the state as a LayerSpec.
func (s *PropertyOutputState) Spec(name string) LayerSpec {
	marks := make(map[string]MarkProperty, len(s.marks))
	for k, v := range s.marks {
		marks[k] = v
	}
	spec := LayerSpec{
		Name:    name,
		Scales:  append([]Scale{}, s.scales...),
		Data:    append([]Transform{}, s.transforms...),
		Marks:   marks,
		Legends: append([]Legend(nil), s.legends...),
		SQL:     append([]SQLTransform{}, s.sql...),
	}
	return spec
}
