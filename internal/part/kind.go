// Package part defines catalog entries and placed assembly parts.
package part

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies a component type. The set is closed; switches over Kind
// list every value and panic on anything else.
type Kind int

const (
	KindBody Kind = iota
	KindNose
	KindFin
	KindInner
	KindParachute
	KindMass
	KindTelemetry
)

var kindNames = [...]string{
	KindBody:      "body",
	KindNose:      "nose",
	KindFin:       "fin",
	KindInner:     "inner",
	KindParachute: "parachute",
	KindMass:      "mass",
	KindTelemetry: "telemetry",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindBody, KindNose, KindFin, KindInner, KindParachute, KindMass, KindTelemetry}
}

// String returns the catalog tag for the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a catalog tag to a Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsAxial reports whether the kind is a tube-like part laid out along the
// long axis (body, inner tube, nose cone).
func (k Kind) IsAxial() bool {
	switch k {
	case KindBody, KindInner, KindNose:
		return true
	case KindFin, KindParachute, KindMass, KindTelemetry:
		return false
	}
	panic(fmt.Sprintf("part: unhandled kind %d", int(k)))
}

// IsContainer reports whether parts of this kind can hold nested children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindBody, KindInner:
		return true
	case KindNose, KindFin, KindParachute, KindMass, KindTelemetry:
		return false
	}
	panic(fmt.Sprintf("part: unhandled kind %d", int(k)))
}

// MarshalJSON encodes the kind as its tag.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind tag.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown part type %q", s)
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes the kind as its tag.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML decodes a kind tag from a YAML scalar.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	parsed, ok := ParseKind(node.Value)
	if !ok {
		return fmt.Errorf("line %d: unknown part type %q", node.Line, node.Value)
	}
	*k = parsed
	return nil
}
