package kripke

import (
	"fmt"
	"sort"
	"strings"
)

// Structure is a Kripke structure: named worlds plus accessibility relations.
//
// Worlds keep the order they were added in; that order drives subset
// enumeration, product update and equality. A Structure owns its relations:
// constructors clone the Relations they are given, so RemoveNodeByName never
// reaches data shared with another structure.
type Structure struct {
	worlds    map[string]World
	names     []string
	relations Relations
}

// New builds a structure from an ordered sequence of worlds. A later world
// with an already seen name replaces the earlier one in its original slot.
func New(worlds []World, relations Relations) *Structure {
	ks := &Structure{
		worlds:    make(map[string]World, len(worlds)),
		names:     make([]string, 0, len(worlds)),
		relations: relations.Clone(),
	}
	for _, w := range worlds {
		ks.put(NewWorld(w.Name, w.Assignment))
	}
	return ks
}

// NewFromMap builds a structure from a mapping of worlds. Each world is
// indexed by its own Name, not by the map key; worlds are ordered by key.
func NewFromMap(worlds map[string]World, relations Relations) *Structure {
	keys := make([]string, 0, len(worlds))
	for k := range worlds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]World, len(keys))
	for i, k := range keys {
		ordered[i] = worlds[k]
	}
	return New(ordered, relations)
}

// FromValue accepts []World, []*World or map[string]World and fails with
// ErrInvalidWorlds for anything else.
func FromValue(worlds any, relations Relations) (*Structure, error) {
	switch v := worlds.(type) {
	case []World:
		return New(v, relations), nil
	case []*World:
		ws := make([]World, 0, len(v))
		for _, w := range v {
			if w == nil {
				return nil, fmt.Errorf("%w: nil world in sequence", ErrInvalidWorlds)
			}
			ws = append(ws, *w)
		}
		return New(ws, relations), nil
	case map[string]World:
		return NewFromMap(v, relations), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidWorlds, worlds)
	}
}

func (ks *Structure) put(w World) {
	if _, ok := ks.worlds[w.Name]; !ok {
		ks.names = append(ks.names, w.Name)
	}
	ks.worlds[w.Name] = w
}

// Len returns the number of worlds.
func (ks *Structure) Len() int { return len(ks.names) }

// Names returns world names in structure order.
func (ks *Structure) Names() []string {
	out := make([]string, len(ks.names))
	copy(out, ks.names)
	return out
}

// Worlds returns the worlds in structure order. Worlds are shared values and
// must not be modified.
func (ks *Structure) Worlds() []World {
	out := make([]World, len(ks.names))
	for i, n := range ks.names {
		out[i] = ks.worlds[n]
	}
	return out
}

// World looks up a world by name.
func (ks *Structure) World(name string) (World, bool) {
	w, ok := ks.worlds[name]
	return w, ok
}

func (ks *Structure) HasWorld(name string) bool {
	_, ok := ks.worlds[name]
	return ok
}

// Relations returns a copy of the structure's relations.
func (ks *Structure) Relations() Relations { return ks.relations.Clone() }

// RelationKind reports whether the relations are flat or per agent.
func (ks *Structure) RelationKind() RelationKind { return ks.relations.kind }

// Agents returns the agents that have a relation, sorted; nil when flat.
func (ks *Structure) Agents() []string { return ks.relations.Agents() }

// Relation returns a copy of the pair set an agent sees.
func (ks *Structure) Relation(agent string) PairSet { return ks.relations.For(agent) }

// Successors lists the worlds agent considers possible from world.
func (ks *Structure) Successors(agent, world string) []string {
	return ks.relations.view(agent).Successors(world)
}

// Clone returns a structure with its own world index and relations.
func (ks *Structure) Clone() *Structure {
	out := &Structure{
		worlds:    make(map[string]World, len(ks.worlds)),
		names:     ks.Names(),
		relations: ks.relations.Clone(),
	}
	for n, w := range ks.worlds {
		out.worlds[n] = w
	}
	return out
}

// RemoveNodeByName deletes a world and every relation pair that touches it.
// It fails before touching relations when the world is absent.
func (ks *Structure) RemoveNodeByName(name string) error {
	if _, ok := ks.worlds[name]; !ok {
		return fmt.Errorf("%w: %q", ErrWorldNotFound, name)
	}
	delete(ks.worlds, name)
	for i, n := range ks.names {
		if n == name {
			ks.names = append(ks.names[:i], ks.names[i+1:]...)
			break
		}
	}
	ks.relations.removeTouching(name)
	return nil
}

// Equal compares two structures position by position.
//
// Worlds are paired in structure order and the pairing stops at the shorter
// sequence, so equality depends on insertion order. Flat relations are paired
// the same way. For per-agent relations every agent of ks must map to the
// same set in other, an absent agent counting as the empty set.
func (ks *Structure) Equal(other *Structure) bool {
	if ks == nil || other == nil {
		return ks == other
	}
	if (ks.Len() == 0) != (other.Len() == 0) {
		return false
	}
	for i := 0; i < ks.Len() && i < other.Len(); i++ {
		if !ks.worlds[ks.names[i]].Equal(other.worlds[other.names[i]]) {
			return false
		}
	}

	if ks.relations.kind != other.relations.kind {
		return false
	}
	switch ks.relations.kind {
	case FlatRelations:
		a, b := ks.relations.flat.order, other.relations.flat.order
		for i := 0; i < len(a) && i < len(b); i++ {
			if a[i] != b[i] {
				return false
			}
		}
	case AgentRelations:
		for agent, set := range ks.relations.agents {
			if !set.Equal(other.relations.agents[agent]) {
				return false
			}
		}
	}
	return true
}

func (ks *Structure) String() string {
	var sb strings.Builder
	sb.WriteString("(W = {")
	for _, n := range ks.names {
		sb.WriteString(ks.worlds[n].String())
	}
	sb.WriteString("}, R = ")
	sb.WriteString(ks.relations.String())
	sb.WriteString(")")
	return sb.String()
}
