package part

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Parameter bag keys understood by the engine.
const (
	ParamLength           = "length"
	ParamRadius           = "radius"
	ParamThickness        = "thickness"
	ParamMaterial         = "material"
	ParamParent           = "parent"
	ParamMass             = "mass"
	ParamRelativePosition = "relativePosition"
	ParamPlusOffset       = "plusOffset"
	ParamRotation         = "rotation"
	ParamFinCount         = "finCount"
	ParamRootChord        = "rootChord"
	ParamTipChord         = "tipChord"
	ParamSpan             = "span"
	ParamSweep            = "sweep"
)

// Params is the catalog parameter bag. Values come from JSON or YAML, so
// numbers may arrive as float64, int, or numeric strings.
type Params map[string]any

// Float returns a numeric parameter, or fallback if missing or not numeric.
func (p Params) Float(key string, fallback float64) float64 {
	v, ok := p[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return fallback
}

// String returns a string parameter, or "" if missing or not a string.
func (p Params) String(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Bool returns a bool parameter, or fallback if not set.
func (p Params) Bool(key string, fallback bool) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// Clone returns a shallow copy of the bag.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Length returns the axial length.
func (p Params) Length() float64 { return p.Float(ParamLength, 0) }

// Radius returns the outer radius.
func (p Params) Radius() float64 { return p.Float(ParamRadius, 0) }

// Parent returns the declared parent id.
func (p Params) Parent() string { return strings.TrimSpace(p.String(ParamParent)) }

// FinCount returns the number of fins in the set, at least 1.
func (p Params) FinCount() int {
	n := int(p.Float(ParamFinCount, 3))
	if n < 1 {
		return 1
	}
	return n
}

// RelativePosition returns "top" or "bottom".
func (p Params) RelativePosition() string {
	if strings.EqualFold(strings.TrimSpace(p.String(ParamRelativePosition)), "bottom") {
		return "bottom"
	}
	return "top"
}
