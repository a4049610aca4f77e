package formula

import (
	"fmt"

	"github.com/rfielding/kripke-del/kripke"
)

// Temporal operators read a structure as a transition graph: the successors
// of a world are the union of the group's relations. They are evaluated
// globally with fixpoints over world sets, so nesting them is polynomial in
// the number of worlds rather than in the length of paths.

// WorldSet is a set of world names.
type WorldSet map[string]struct{}

func (s WorldSet) Has(name string) bool { _, ok := s[name]; return ok }
func (s WorldSet) Add(name string)      { s[name] = struct{}{} }

func (s WorldSet) Equal(other WorldSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// graph is the successor function of a structure under a group.
type graph struct {
	names []string
	succ  map[string][]string
}

func newGraph(ks *kripke.Structure, agents []string) graph {
	g := graph{names: ks.Names(), succ: make(map[string][]string)}
	group := groupOf(ks, agents)
	for _, w := range g.names {
		seen := make(map[string]bool)
		for _, a := range group {
			for _, next := range ks.Successors(a, w) {
				if !seen[next] {
					seen[next] = true
					g.succ[w] = append(g.succ[w], next)
				}
			}
		}
	}
	return g
}

// Sat returns the worlds of ks where f holds.
func Sat(ks *kripke.Structure, f Formula) WorldSet {
	if t, ok := f.(temporal); ok {
		return t.sat(ks)
	}
	out := make(WorldSet)
	for _, w := range ks.Names() {
		if f.Semantic(ks, w) {
			out.Add(w)
		}
	}
	return out
}

type temporal interface {
	sat(ks *kripke.Structure) WorldSet
}

func holdsIn(t temporal, ks *kripke.Structure, world string) bool {
	return t.sat(ks).Has(world)
}

// preE is { w | some successor of w is in set }.
func (g graph) preE(set WorldSet) WorldSet {
	out := make(WorldSet)
	for _, w := range g.names {
		for _, next := range g.succ[w] {
			if set.Has(next) {
				out.Add(w)
				break
			}
		}
	}
	return out
}

// preA is { w | every successor of w is in set }. Dead ends qualify.
func (g graph) preA(set WorldSet) WorldSet {
	out := make(WorldSet)
	for _, w := range g.names {
		all := true
		for _, next := range g.succ[w] {
			if !set.Has(next) {
				all = false
				break
			}
		}
		if all {
			out.Add(w)
		}
	}
	return out
}

func (g graph) complement(set WorldSet) WorldSet {
	out := make(WorldSet)
	for _, w := range g.names {
		if !set.Has(w) {
			out.Add(w)
		}
	}
	return out
}

// until is the least fixpoint W = Sat(q) ∪ (Sat(p) ∩ preE(W)).
func (g graph) until(p, q WorldSet) WorldSet {
	w := make(WorldSet)
	for k := range q {
		w.Add(k)
	}
	for {
		grew := false
		for k := range g.preE(w) {
			if p.Has(k) && !w.Has(k) {
				w.Add(k)
				grew = true
			}
		}
		if !grew {
			return w
		}
	}
}

// globally is the greatest fixpoint Z = Sat(p) ∩ preE(Z).
func (g graph) globally(p WorldSet) WorldSet {
	z := make(WorldSet)
	for k := range p {
		z.Add(k)
	}
	for {
		pre := g.preE(z)
		next := make(WorldSet)
		for k := range z {
			if pre.Has(k) {
				next.Add(k)
			}
		}
		if next.Equal(z) {
			return z
		}
		z = next
	}
}

// EX φ: some successor satisfies φ.
type EX struct {
	Agents []string
	F      Formula
}

func (e EX) sat(ks *kripke.Structure) WorldSet {
	return newGraph(ks, e.Agents).preE(Sat(ks, e.F))
}

func (e EX) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(e, ks, world) }
func (e EX) String() string                                   { return temporalString("EX", e.Agents, e.F) }

// AX φ: every successor satisfies φ.
type AX struct {
	Agents []string
	F      Formula
}

func (a AX) sat(ks *kripke.Structure) WorldSet {
	return newGraph(ks, a.Agents).preA(Sat(ks, a.F))
}

func (a AX) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(a, ks, world) }
func (a AX) String() string                                   { return temporalString("AX", a.Agents, a.F) }

// EU is E[φ U ψ]: some path keeps φ until it reaches ψ.
type EU struct {
	Agents      []string
	Left, Right Formula
}

func (e EU) sat(ks *kripke.Structure) WorldSet {
	return newGraph(ks, e.Agents).until(Sat(ks, e.Left), Sat(ks, e.Right))
}

func (e EU) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(e, ks, world) }
func (e EU) String() string {
	return fmt.Sprintf("E%s[%s U %s]", groupString(e.Agents), e.Left, e.Right)
}

// EF φ: φ is reachable in zero or more steps.
type EF struct {
	Agents []string
	F      Formula
}

func (e EF) sat(ks *kripke.Structure) WorldSet {
	g := newGraph(ks, e.Agents)
	return g.until(g.complement(nil), Sat(ks, e.F))
}

func (e EF) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(e, ks, world) }
func (e EF) String() string                                   { return temporalString("EF", e.Agents, e.F) }

// EG φ: some infinite path keeps φ forever. Dead ends have no infinite path.
type EG struct {
	Agents []string
	F      Formula
}

func (e EG) sat(ks *kripke.Structure) WorldSet {
	return newGraph(ks, e.Agents).globally(Sat(ks, e.F))
}

func (e EG) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(e, ks, world) }
func (e EG) String() string                                   { return temporalString("EG", e.Agents, e.F) }

// AF φ ≡ ¬EG ¬φ
type AF struct {
	Agents []string
	F      Formula
}

func (a AF) sat(ks *kripke.Structure) WorldSet {
	g := newGraph(ks, a.Agents)
	return g.complement(g.globally(g.complement(Sat(ks, a.F))))
}

func (a AF) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(a, ks, world) }
func (a AF) String() string                                   { return temporalString("AF", a.Agents, a.F) }

// AG φ ≡ ¬EF ¬φ
type AG struct {
	Agents []string
	F      Formula
}

func (a AG) sat(ks *kripke.Structure) WorldSet {
	g := newGraph(ks, a.Agents)
	return g.complement(g.until(g.complement(nil), g.complement(Sat(ks, a.F))))
}

func (a AG) Semantic(ks *kripke.Structure, world string) bool { return holdsIn(a, ks, world) }
func (a AG) String() string                                   { return temporalString("AG", a.Agents, a.F) }

func temporalString(op string, agents []string, f Formula) string {
	return fmt.Sprintf("%s%s %s", op, groupString(agents), f)
}
