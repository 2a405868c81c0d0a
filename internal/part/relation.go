package part

import (
	"fmt"
	"strings"
)

var idPrefixes = []string{"stage", "tube", "body"}

// NormalizeID canonicalizes a parent reference so that stage and tube ids
// written with different prefixes compare equal ("Stage-1", "tube_1" -> "1").
func NormalizeID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	for _, prefix := range idPrefixes {
		for _, sep := range []string{"-", "_", ":"} {
			if rest, ok := strings.CutPrefix(s, prefix+sep); ok && rest != "" {
				return rest
			}
		}
	}
	return s
}

// SameID reports whether a parent reference names the given id.
func SameID(ref, id string) bool {
	if ref == "" || id == "" {
		return false
	}
	return ref == id || NormalizeID(ref) == NormalizeID(id)
}

// Index maps part ids to their position in an assembly slice. It is rebuilt
// from scratch whenever the slice changes.
type Index map[string]int

// NewIndex builds an id index over parts.
func NewIndex(parts []Placed) Index {
	idx := make(Index, len(parts))
	for i, p := range parts {
		idx[p.ID] = i
	}
	return idx
}

// Resolve finds the part a reference points at among those accepted by the
// filter: exact id first, then normalized id. Returns -1 when nothing matches.
func Resolve(ref string, parts []Placed, idx Index, accept func(Placed) bool) int {
	if ref == "" {
		return -1
	}
	if i, ok := idx[ref]; ok && (accept == nil || accept(parts[i])) {
		return i
	}
	norm := NormalizeID(ref)
	for i, p := range parts {
		if NormalizeID(p.ID) == norm && (accept == nil || accept(p)) {
			return i
		}
	}
	return -1
}

// followsKind reports whether a part of kind child with the given internal
// flag derives its position from a parent of kind parent.
func followsKind(child Kind, internal bool, parent Kind) bool {
	switch child {
	case KindInner, KindParachute, KindMass, KindTelemetry:
		return parent == KindBody || parent == KindInner
	case KindBody:
		return internal && parent == KindBody
	case KindNose, KindFin:
		return false
	}
	panic(fmt.Sprintf("part: unhandled kind %d", int(child)))
}

// FollowedParent returns the index of the placed part whose position p must
// mirror, or -1 when p is independent (no parent, parent not placed, or a
// relationship that does not imply position-follow).
func FollowedParent(p Placed, parts []Placed, idx Index) int {
	ref := p.Params.Parent()
	if ref == "" {
		return -1
	}
	return Resolve(ref, parts, idx, func(c Placed) bool {
		return c.ID != p.ID && followsKind(p.Kind, p.Internal, c.Kind)
	})
}

// IsNestChild reports whether entry is auto-placed together with the
// container identified by containerID.
func IsNestChild(entry CatalogEntry, containerID string) bool {
	if !entry.Internal || entry.ID == containerID {
		return false
	}
	return SameID(entry.Params.Parent(), containerID)
}
