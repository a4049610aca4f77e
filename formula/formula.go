// Package formula implements epistemic modal formulas over kripke structures.
//
// Atoms read a world's assignment under the closed-world convention: an
// unassigned proposition is false. Knowledge operators quantify over the
// agent's accessibility relation restricted to pairs leaving the world.
package formula

import (
	"fmt"
	"strings"

	"github.com/rfielding/kripke-del/kripke"
)

// Formula is a modal formula with a printable form.
type Formula interface {
	kripke.Formula
	String() string
}

// ----- Constants and atoms -----

// Top is the constant true.
type Top struct{}

func (Top) Semantic(*kripke.Structure, string) bool { return true }
func (Top) String() string                          { return "⊤" }

// Bottom is the constant false.
type Bottom struct{}

func (Bottom) Semantic(*kripke.Structure, string) bool { return false }
func (Bottom) String() string                          { return "⊥" }

// Atom is a proposition looked up in the world's assignment.
type Atom struct {
	Name string
}

func (a Atom) Semantic(ks *kripke.Structure, world string) bool {
	w, ok := ks.World(world)
	if !ok {
		return false
	}
	return w.Assignment[a.Name]
}

func (a Atom) String() string { return a.Name }

// ----- Boolean connectives -----

// Not: ¬φ
type Not struct {
	F Formula
}

func (n Not) Semantic(ks *kripke.Structure, world string) bool { return !n.F.Semantic(ks, world) }
func (n Not) String() string                                   { return fmt.Sprintf("¬%s", n.F) }

// And: (φ ∧ ψ)
type And struct {
	Left, Right Formula
}

func (a And) Semantic(ks *kripke.Structure, world string) bool {
	return a.Left.Semantic(ks, world) && a.Right.Semantic(ks, world)
}

func (a And) String() string { return fmt.Sprintf("(%s ∧ %s)", a.Left, a.Right) }

// Or: (φ ∨ ψ)
type Or struct {
	Left, Right Formula
}

func (o Or) Semantic(ks *kripke.Structure, world string) bool {
	return o.Left.Semantic(ks, world) || o.Right.Semantic(ks, world)
}

func (o Or) String() string { return fmt.Sprintf("(%s ∨ %s)", o.Left, o.Right) }

// Implies: (φ → ψ)
type Implies struct {
	Left, Right Formula
}

func (i Implies) Semantic(ks *kripke.Structure, world string) bool {
	return !i.Left.Semantic(ks, world) || i.Right.Semantic(ks, world)
}

func (i Implies) String() string { return fmt.Sprintf("(%s → %s)", i.Left, i.Right) }

// Iff: (φ ↔ ψ)
type Iff struct {
	Left, Right Formula
}

func (i Iff) Semantic(ks *kripke.Structure, world string) bool {
	return i.Left.Semantic(ks, world) == i.Right.Semantic(ks, world)
}

func (i Iff) String() string { return fmt.Sprintf("(%s ↔ %s)", i.Left, i.Right) }

// ----- Knowledge operators -----

// Box is K_a φ: φ holds in every world the agent considers possible.
// With flat relations the agent name is ignored.
type Box struct {
	Agent string
	F     Formula
}

func (b Box) Semantic(ks *kripke.Structure, world string) bool {
	for _, next := range ks.Successors(b.Agent, world) {
		if !b.F.Semantic(ks, next) {
			return false
		}
	}
	return true
}

func (b Box) String() string { return fmt.Sprintf("K_%s %s", b.Agent, b.F) }

// Diamond is M_a φ: φ holds in some world the agent considers possible.
type Diamond struct {
	Agent string
	F     Formula
}

func (d Diamond) Semantic(ks *kripke.Structure, world string) bool {
	for _, next := range ks.Successors(d.Agent, world) {
		if d.F.Semantic(ks, next) {
			return true
		}
	}
	return false
}

func (d Diamond) String() string { return fmt.Sprintf("M_%s %s", d.Agent, d.F) }

// Everybody is E_G φ: every agent in the group knows φ.
type Everybody struct {
	Agents []string
	F      Formula
}

func (e Everybody) Semantic(ks *kripke.Structure, world string) bool {
	for _, a := range groupOf(ks, e.Agents) {
		if !(Box{Agent: a, F: e.F}).Semantic(ks, world) {
			return false
		}
	}
	return true
}

func (e Everybody) String() string { return fmt.Sprintf("E%s %s", groupString(e.Agents), e.F) }

// Common is C_G φ: φ holds at every world reachable in one or more steps
// along any group member's relation. A nil group means every agent of the
// structure.
type Common struct {
	Agents []string
	F      Formula
}

func (c Common) Semantic(ks *kripke.Structure, world string) bool {
	group := groupOf(ks, c.Agents)
	seen := make(map[string]bool)
	queue := []string{world}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range group {
			for _, next := range ks.Successors(a, cur) {
				if seen[next] {
					continue
				}
				seen[next] = true
				if !c.F.Semantic(ks, next) {
					return false
				}
				queue = append(queue, next)
			}
		}
	}
	return true
}

func (c Common) String() string { return fmt.Sprintf("C%s %s", groupString(c.Agents), c.F) }

// groupOf resolves an empty group to the structure's agents. Flat relations
// have no agents, so the group becomes the single unnamed relation.
func groupOf(ks *kripke.Structure, agents []string) []string {
	if len(agents) > 0 {
		return agents
	}
	if ks.RelationKind() == kripke.FlatRelations {
		return []string{""}
	}
	return ks.Agents()
}

func groupString(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	return "{" + strings.Join(agents, ",") + "}"
}

// ----- Helpers -----

// Conj folds formulas with And; the empty conjunction is Top.
func Conj(fs ...Formula) Formula {
	if len(fs) == 0 {
		return Top{}
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = And{Left: out, Right: f}
	}
	return out
}

// Disj folds formulas with Or; the empty disjunction is Bottom.
func Disj(fs ...Formula) Formula {
	if len(fs) == 0 {
		return Bottom{}
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = Or{Left: out, Right: f}
	}
	return out
}
