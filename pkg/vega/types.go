// Package vega holds the Vega-like objects produced by encoding
// compilation and the output state that collects them for one layer.
package vega

import (
	"encoding/json"
)

// DataRef points a scale domain at the outputs of a named data transform.
type DataRef struct {
	Data   string   `json:"data"`
	Field  string   `json:"field,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// Names returns every output referenced, Field first.
func (r DataRef) Names() []string {
	var names []string
	if r.Field != "" {
		names = append(names, r.Field)
	}
	return append(names, r.Fields...)
}

// Scale is a backend scale object. Domain is either a []any of literal
// values or a DataRef.
type Scale struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Domain        any      `json:"domain"`
	Range         []any    `json:"range"`
	Clamp         *bool    `json:"clamp,omitempty"`
	Interpolator  string   `json:"interpolator,omitempty"`
	Exponent      *float64 `json:"exponent,omitempty"`
	Default       any      `json:"default,omitempty"`
	Accumulator   string   `json:"accumulator,omitempty"`
	MinDensityCnt any      `json:"minDensityCnt,omitempty"`
	MaxDensityCnt any      `json:"maxDensityCnt,omitempty"`
	NullValue     any      `json:"nullValue,omitempty"`
}

// DomainRef returns the scale's domain as a DataRef, if it is one.
func (s Scale) DomainRef() (DataRef, bool) {
	switch d := s.Domain.(type) {
	case DataRef:
		return d, true
	case *DataRef:
		if d != nil {
			return *d, true
		}
	}
	return DataRef{}, false
}

// Stage is one step of a data transform: an *Aggregate or a *Formula.
type Stage interface {
	StageType() string
}

// Aggregate computes Ops[i] over Fields[i] into As[i].
type Aggregate struct {
	Fields []string
	Ops    []string
	As     []string
}

// StageType implements Stage.
func (*Aggregate) StageType() string { return "aggregate" }

// Add appends an aggregate op unless an op of the same name over the same
// field is already present. It returns the output name.
func (a *Aggregate) Add(field, op, as string) string {
	for i := range a.Ops {
		if a.Ops[i] == op && a.Fields[i] == field {
			return a.As[i]
		}
	}
	a.Fields = append(a.Fields, field)
	a.Ops = append(a.Ops, op)
	a.As = append(a.As, as)
	return as
}

// MarshalJSON implements json.Marshaler.
func (a *Aggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string   `json:"type"`
		Fields []string `json:"fields"`
		Ops    []string `json:"ops"`
		As     []string `json:"as"`
	}{a.StageType(), a.Fields, a.Ops, a.As})
}

// Formula evaluates Expr over earlier outputs into As.
type Formula struct {
	Expr string
	As   string
}

// StageType implements Stage.
func (*Formula) StageType() string { return "formula" }

// MarshalJSON implements json.Marshaler.
func (f *Formula) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Expr string `json:"expr"`
		As   string `json:"as"`
	}{f.StageType(), f.Expr, f.As})
}

// Transform is a named data source derived from Source.
type Transform struct {
	Name      string  `json:"name"`
	Source    string  `json:"source"`
	Transform []Stage `json:"transform"`
}

// MarkProperty ties a mark property to a projected field and optional scale.
type MarkProperty struct {
	Field string `json:"field"`
	Scale string `json:"scale,omitempty"`
}

// Legend describes the legend for one encoded property.
type Legend struct {
	Prop   string `json:"prop"`
	Scale  string `json:"scale"`
	Title  string `json:"title"`
	Open   bool   `json:"open"`
	Locked bool   `json:"locked"`
}

// SQLTransform is a transform applied to the layer's SQL, such as a
// projection of a field expression under an alias.
type SQLTransform struct {
	Type string `json:"type"`
	Expr string `json:"expr"`
	As   string `json:"as"`
}

// Project builds a "project" SQL transform.
func Project(expr, as string) SQLTransform {
	return SQLTransform{Type: "project", Expr: expr, As: as}
}

// LayerSpec is the compiled output for one layer.
type LayerSpec struct {
	Name            string                  `json:"name"`
	Scales          []Scale                 `json:"scales"`
	Data            []Transform             `json:"data"`
	Marks           map[string]MarkProperty `json:"marks"`
	Legends         []Legend                `json:"legends,omitempty"`
	SQL             []SQLTransform          `json:"sql"`
	ColorExpression string                  `json:"colorExpression,omitempty"`
}
