package snap

import (
	"fmt"

	"rocket-assembler/internal/fin"
	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

// Anchor names.
const (
	AnchorFront = "front"
	AnchorAft   = "aft"
	AnchorRoot  = "root"
	AnchorTip   = "tip"
)

// Anchor is a point on a part usable as the source or target of an exact
// anchor-to-anchor snap. Sign only orients the anchor marker: -1 faces
// forward, +1 faces aft, 0 for fin edges.
type Anchor struct {
	ID      string        `json:"id"`
	PartID  string        `json:"partId"`
	Name    string        `json:"name"`
	Logical geometry.Vec3 `json:"logical"`
	Sign    int           `json:"sign"`
}

// AnchorID builds the id of a part's named anchor.
func AnchorID(partID, name string) string {
	return partID + "#" + name
}

// Anchors lists every anchor in the assembly: both end faces of tubes and
// noses, both edge centres of fins.
func Anchors(parts []part.Placed) []Anchor {
	var out []Anchor
	for _, p := range parts {
		switch p.Kind {
		case part.KindBody, part.KindInner, part.KindNose:
			front := p.Position
			aft := geometry.V3(p.Aft(), p.Position[1], p.Position[2])
			out = append(out,
				Anchor{ID: AnchorID(p.ID, AnchorFront), PartID: p.ID, Name: AnchorFront, Logical: front, Sign: -1},
				Anchor{ID: AnchorID(p.ID, AnchorAft), PartID: p.ID, Name: AnchorAft, Logical: aft, Sign: 1},
			)
		case part.KindFin:
			root, tip := fin.EdgeCenters(p, parts)
			out = append(out,
				Anchor{ID: AnchorID(p.ID, AnchorRoot), PartID: p.ID, Name: AnchorRoot, Logical: root},
				Anchor{ID: AnchorID(p.ID, AnchorTip), PartID: p.ID, Name: AnchorTip, Logical: tip},
			)
		case part.KindParachute, part.KindMass, part.KindTelemetry:
		default:
			panic(fmt.Sprintf("snap: unhandled kind %v", p.Kind))
		}
	}
	return out
}

func findAnchor(anchors []Anchor, id string) (Anchor, bool) {
	for _, a := range anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// AnchorOutcome is what a click on an anchor did.
type AnchorOutcome int

const (
	AnchorIgnored AnchorOutcome = iota
	AnchorArmed
	AnchorDisarmed
	AnchorSnapped
)

// String returns the outcome name.
func (o AnchorOutcome) String() string {
	switch o {
	case AnchorArmed:
		return "armed"
	case AnchorDisarmed:
		return "disarmed"
	case AnchorSnapped:
		return "snapped"
	}
	return "ignored"
}

// AnchorMove translates a whole part by Delta.
type AnchorMove struct {
	PartID string        `json:"partId"`
	Delta  geometry.Vec3 `json:"delta"`
}

// Target returns the position and rotation that carry out the move for p.
// Fins keep their orientation so their anchors shift by exactly Delta.
func (m AnchorMove) Target(p part.Placed, parts []part.Placed) (position, rotation geometry.Vec3) {
	if p.Kind == part.KindFin {
		return fin.Translate(p, m.Delta, parts)
	}
	return p.Position.Add(m.Delta), p.Rotation
}

// AnchorArming is the two-click anchor protocol: idle or armed on one
// anchor. It lives for an interactive session and is never persisted.
type AnchorArming struct {
	armed string
}

// Armed returns the armed anchor id, if any.
func (a *AnchorArming) Armed() (string, bool) {
	return a.armed, a.armed != ""
}

// Reset returns to idle.
func (a *AnchorArming) Reset() {
	a.armed = ""
}

// Click handles a click on anchor id. The first click arms it. A second
// click on another part's anchor yields the translation that lands that
// part's anchor exactly on the armed one. Clicking the armed anchor again,
// or another anchor of the same part, disarms.
func (a *AnchorArming) Click(id string, anchors []Anchor) (AnchorOutcome, *AnchorMove) {
	clicked, ok := findAnchor(anchors, id)
	if !ok {
		return AnchorIgnored, nil
	}

	armed, isArmed := findAnchor(anchors, a.armed)
	if !isArmed {
		a.armed = clicked.ID
		return AnchorArmed, nil
	}

	a.Reset()
	if clicked.ID == armed.ID || clicked.PartID == armed.PartID {
		return AnchorDisarmed, nil
	}
	return AnchorSnapped, &AnchorMove{
		PartID: clicked.PartID,
		Delta:  armed.Logical.Sub(clicked.Logical),
	}
}

// Revalidate disarms when the armed anchor no longer exists or the view
// left 3D. Reports whether it disarmed.
func (a *AnchorArming) Revalidate(anchors []Anchor, view3D bool) bool {
	if a.armed == "" {
		return false
	}
	if _, ok := findAnchor(anchors, a.armed); ok && view3D {
		return false
	}
	a.Reset()
	return true
}

// RailArming remembers which fin edge a rail-ball click armed.
type RailArming struct {
	finID string
	edge  fin.Edge
}

// ClickBall toggles arming of a fin edge and reports whether it is now armed.
func (r *RailArming) ClickBall(finID string, e fin.Edge) bool {
	if r.finID == finID && r.edge == e {
		r.Reset()
		return false
	}
	r.finID, r.edge = finID, e
	return true
}

// Armed returns the armed edge for finID.
func (r *RailArming) Armed(finID string) (fin.Edge, bool) {
	if r.finID == "" || r.finID != finID {
		return fin.EdgeRoot, false
	}
	return r.edge, true
}

// Edge returns the armed edge for finID, or nil. The arming is left in
// place; callers Reset once the edge has been used.
func (r *RailArming) Edge(finID string) *fin.Edge {
	e, ok := r.Armed(finID)
	if !ok {
		return nil
	}
	return &e
}

// Reset returns to idle.
func (r *RailArming) Reset() {
	r.finID = ""
	r.edge = fin.EdgeRoot
}

// Fin returns the fin whose edge is armed, if any.
func (r *RailArming) Fin() (string, bool) {
	return r.finID, r.finID != ""
}
