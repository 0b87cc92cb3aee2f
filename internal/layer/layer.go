// Package layer loads layer documents and turns them into compile requests.
//
// A document is YAML (or JSON) holding either one layer or a "layers" list:
//
//	name: points
//	fact_table: flights
//	encoding:
//	  x: {field: lon}
//	  color: {field: delay, type: quantitative}
//	color_sql: flights.delay * airports.weight
package layer

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/mapd/vlcompile/pkg/encoding"
	"github.com/mapd/vlcompile/pkg/factsplit"
	"github.com/mapd/vlcompile/pkg/vega"
)

// Document is one layer as written in a layer file.
type Document struct {
	Name      string         `mapstructure:"name"`
	FactTable string         `mapstructure:"fact_table"`
	Encoding  map[string]any `mapstructure:"encoding"`
	ColorSQL  string         `mapstructure:"color_sql"`
}

// Defaults fill in what a document leaves unset.
type Defaults struct {
	LayerName string
	FactTable string
	WithAlias string
}

type file struct {
	Document `mapstructure:",squash"`
	Layers   []Document `mapstructure:"layers"`
}

// Load reads the layer documents in path.
func Load(path string) ([]Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read layer file: %w", err)
	}
	docs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Parse decodes layer documents. Unknown keys are an error.
func Parse(data []byte) ([]Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid layer document: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty layer document")
	}

	var f file
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid layer document: %w", err)
	}

	docs := f.Layers
	if _, ok := raw["layers"]; ok {
		if f.Name != "" || f.Encoding != nil || f.FactTable != "" || f.ColorSQL != "" {
			return nil, fmt.Errorf("a document with layers cannot also define a layer")
		}
		for i := range docs {
			if docs[i].Name == "" {
				docs[i].Name = fmt.Sprintf("layer%d", i)
			}
		}
	} else {
		docs = []Document{f.Document}
	}

	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		if len(d.Encoding) == 0 {
			return nil, fmt.Errorf("layer %d (%q) has no encoding", i, d.Name)
		}
		if d.Name != "" && seen[d.Name] {
			return nil, fmt.Errorf("duplicate layer name %q", d.Name)
		}
		seen[d.Name] = true
	}
	return docs, nil
}

// Request builds the compile request for d. A color_sql expression is split
// into fact projections, recorded as project SQL transforms, and the
// rewritten expression that reads them through the defaults' alias.
func (d Document) Request(s *factsplit.Splitter, defaults Defaults) encoding.LayerRequest {
	req := encoding.LayerRequest{
		Name:     d.Name,
		Encoding: d.Encoding,
	}
	if req.Name == "" {
		req.Name = defaults.LayerName
	}
	if d.ColorSQL == "" {
		return req
	}

	factTable := d.FactTable
	if factTable == "" {
		factTable = defaults.FactTable
	}
	res := s.Split(factTable, defaults.WithAlias, d.ColorSQL)
	for i, proj := range res.FactProjections {
		req.SQL = append(req.SQL, vega.Project(proj, res.FactAliases[i]))
	}
	req.ColorExpression = res.Expression
	return req
}

// Table returns the fact table extents are queried from.
func (d Document) Table(defaults Defaults) string {
	if d.FactTable != "" {
		return d.FactTable
	}
	return defaults.FactTable
}
