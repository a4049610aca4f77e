package kripke

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is one edge (From, To) of an accessibility relation.
type Pair struct {
	From, To string
}

func (p Pair) String() string { return fmt.Sprintf("(%s,%s)", p.From, p.To) }

// Touches reports whether name is either end of the pair.
func (p Pair) Touches(name string) bool { return p.From == name || p.To == name }

// ----- Pair sets -----

// PairSet is a set of pairs that remembers insertion order, so iterating it
// is deterministic. The zero value is an empty set ready to use.
type PairSet struct {
	order []Pair
	index map[Pair]int
}

// NewPairSet builds a set from pairs; duplicates keep their first position.
func NewPairSet(pairs ...Pair) PairSet {
	var s PairSet
	for _, p := range pairs {
		s.Add(p)
	}
	return s
}

// PairsOf is shorthand for NewPairSet from two-element string arrays.
func PairsOf(pairs ...[2]string) PairSet {
	var s PairSet
	for _, p := range pairs {
		s.Add(Pair{From: p[0], To: p[1]})
	}
	return s
}

func (s PairSet) Has(p Pair) bool { _, ok := s.index[p]; return ok }
func (s PairSet) Len() int        { return len(s.order) }

// Add inserts p at the end of the iteration order unless already present.
func (s *PairSet) Add(p Pair) {
	if s.index == nil {
		s.index = make(map[Pair]int)
	}
	if _, ok := s.index[p]; ok {
		return
	}
	s.index[p] = len(s.order)
	s.order = append(s.order, p)
}

// Remove deletes p, keeping the relative order of the remaining pairs.
func (s *PairSet) Remove(p Pair) bool {
	i, ok := s.index[p]
	if !ok {
		return false
	}
	s.order = append(s.order[:i], s.order[i+1:]...)
	delete(s.index, p)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
	return true
}

// RemoveTouching drops every pair with name at either end and returns how
// many were removed.
func (s *PairSet) RemoveTouching(name string) int {
	kept := s.order[:0]
	removed := 0
	for _, p := range s.order {
		if p.Touches(name) {
			delete(s.index, p)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.order = kept
	for i, p := range s.order {
		s.index[p] = i
	}
	return removed
}

// Pairs returns the pairs in iteration order. The slice is a copy.
func (s PairSet) Pairs() []Pair {
	out := make([]Pair, len(s.order))
	copy(out, s.order)
	return out
}

func (s PairSet) Clone() PairSet {
	out := PairSet{order: make([]Pair, len(s.order)), index: make(map[Pair]int, len(s.order))}
	copy(out.order, s.order)
	for p, i := range s.index {
		out.index[p] = i
	}
	return out
}

// Equal is set equality; iteration order is ignored.
func (s PairSet) Equal(other PairSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, p := range s.order {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Successors lists the targets of pairs starting at from, in set order.
func (s PairSet) Successors(from string) []string {
	var out []string
	for _, p := range s.order {
		if p.From == from {
			out = append(out, p.To)
		}
	}
	return out
}

func (s PairSet) String() string {
	parts := make([]string, len(s.order))
	for i, p := range s.order {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ----- Relations -----

// RelationKind tags which shape a Relations value holds.
type RelationKind int

const (
	// FlatRelations is a single unlabeled relation shared by every agent.
	FlatRelations RelationKind = iota
	// AgentRelations holds one relation per agent.
	AgentRelations
)

func (k RelationKind) String() string {
	switch k {
	case FlatRelations:
		return "flat"
	case AgentRelations:
		return "agents"
	default:
		return fmt.Sprintf("RelationKind(%d)", int(k))
	}
}

// Relations is either one flat pair set or a mapping from agent to pair set.
// Construct it with Flat or PerAgent.
type Relations struct {
	kind   RelationKind
	flat   PairSet
	agents map[string]PairSet
}

// Flat wraps a single relation. The set is cloned.
func Flat(s PairSet) Relations {
	return Relations{kind: FlatRelations, flat: s.Clone()}
}

// PerAgent wraps one relation per agent. Every set is cloned.
func PerAgent(m map[string]PairSet) Relations {
	r := Relations{kind: AgentRelations, agents: make(map[string]PairSet, len(m))}
	for a, s := range m {
		r.agents[a] = s.Clone()
	}
	return r
}

func (r Relations) Kind() RelationKind { return r.kind }

// FlatSet returns the flat relation; ok is false for per-agent relations.
func (r Relations) FlatSet() (PairSet, bool) {
	if r.kind != FlatRelations {
		return PairSet{}, false
	}
	return r.flat.Clone(), true
}

// AgentSet returns the relation stored under agent; ok is false when the
// relations are flat or the agent has no entry.
func (r Relations) AgentSet(agent string) (PairSet, bool) {
	if r.kind != AgentRelations {
		return PairSet{}, false
	}
	s, ok := r.agents[agent]
	if !ok {
		return PairSet{}, false
	}
	return s.Clone(), true
}

// For returns a copy of the relation an agent sees. A flat relation serves
// every agent; an agent with no entry sees the empty relation.
func (r Relations) For(agent string) PairSet { return r.view(agent).Clone() }

// view is For without the copy, for reads inside the package.
func (r Relations) view(agent string) PairSet {
	switch r.kind {
	case FlatRelations:
		return r.flat
	case AgentRelations:
		return r.agents[agent]
	default:
		return PairSet{}
	}
}

// Agents returns the agent keys in sorted order; nil for flat relations.
func (r Relations) Agents() []string {
	if r.kind != AgentRelations {
		return nil
	}
	out := make([]string, 0, len(r.agents))
	for a := range r.agents {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Len counts pairs across all sets.
func (r Relations) Len() int {
	switch r.kind {
	case FlatRelations:
		return r.flat.Len()
	case AgentRelations:
		n := 0
		for _, s := range r.agents {
			n += s.Len()
		}
		return n
	default:
		return 0
	}
}

func (r Relations) Clone() Relations {
	switch r.kind {
	case AgentRelations:
		return PerAgent(r.agents)
	default:
		return Flat(r.flat)
	}
}

// removeTouching is the in-place filter used by node removal.
func (r *Relations) removeTouching(name string) {
	switch r.kind {
	case FlatRelations:
		r.flat.RemoveTouching(name)
	case AgentRelations:
		for a, s := range r.agents {
			s.RemoveTouching(name)
			r.agents[a] = s
		}
	}
}

func (r Relations) String() string {
	switch r.kind {
	case FlatRelations:
		return r.flat.String()
	case AgentRelations:
		parts := make([]string, 0, len(r.agents))
		for _, a := range r.Agents() {
			parts = append(parts, fmt.Sprintf("%s: %s", a, r.agents[a]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "{}"
	}
}
