// Package encoding compiles declarative visual encodings into Vega-like
// scales, data transforms and mark properties.
//
// A layer's encoding maps channel names (x, y, color, size, ...) to field
// definitions:
//
//	{field: "amount", type: "quantitative",
//	 scale: {type: "quantize", range: ["blue", "red"]},
//	 legend: {title: "Amount"}}
//
// Each field definition projects its SQL field under the channel name,
// optionally builds a scale (explicit or the channel's default) and a
// legend, and finally ties every mark property of the channel to the
// projected field. Scales whose domain is "auto" get an extent transform
// that computes the domain from the data.
package encoding
