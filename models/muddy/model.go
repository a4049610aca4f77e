// Package muddy is the muddy children puzzle: every child sees the others'
// foreheads but not their own.
package muddy

import (
	"strings"

	"github.com/rfielding/kripke-del/formula"
	"github.com/rfielding/kripke-del/kripke"
)

// DefaultChildren is used when Model.Children is zero.
const DefaultChildren = 3

// Model exposes the puzzle through kripke.ModelSpec.
type Model struct {
	Children int
}

func (Model) Name() string { return "muddy" }

func (Model) OriginalText() string {
	return `Scenario: muddy children.

Some children played outside and may have mud on their forehead. Each
child sees every forehead except their own. The father announces that
at least one child is muddy.`
}

func (m Model) children() int {
	if m.Children <= 0 {
		return DefaultChildren
	}
	return m.Children
}

// Agents names the children a, b, c, ...
func Agents(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

// Muddy is the proposition "child is muddy".
func Muddy(child string) string { return "m" + child }

// BuildStructure has one world per mud pattern, written as a bit string.
func (m Model) BuildStructure() *kripke.Structure {
	n := m.children()
	agents := Agents(n)

	var worlds []kripke.World
	for bits := 0; bits < 1<<n; bits++ {
		var name strings.Builder
		assignment := make(kripke.Assignment, n)
		for i, a := range agents {
			muddy := bits&(1<<(n-1-i)) != 0
			assignment[Muddy(a)] = muddy
			if muddy {
				name.WriteByte('1')
			} else {
				name.WriteByte('0')
			}
		}
		worlds = append(worlds, kripke.World{Name: name.String(), Assignment: assignment})
	}

	rel := make(map[string]kripke.PairSet, n)
	for i, a := range agents {
		var s kripke.PairSet
		for _, u := range worlds {
			for _, v := range worlds {
				if u.Name[:i] == v.Name[:i] && u.Name[i+1:] == v.Name[i+1:] {
					s.Add(kripke.Pair{From: u.Name, To: v.Name})
				}
			}
		}
		rel[a] = s
	}
	return kripke.New(worlds, kripke.PerAgent(rel))
}

// SomeoneMuddy is the father's announcement.
func SomeoneMuddy(n int) formula.Formula {
	var fs []formula.Formula
	for _, a := range Agents(n) {
		fs = append(fs, formula.Atom{Name: Muddy(a)})
	}
	return formula.Disj(fs...)
}

// KnowsOwnState holds when child knows whether they are muddy.
func KnowsOwnState(child string) formula.Formula {
	m := formula.Atom{Name: Muddy(child)}
	return formula.Or{
		Left:  formula.Box{Agent: child, F: m},
		Right: formula.Box{Agent: child, F: formula.Not{F: m}},
	}
}

func (m Model) Formulas() []kripke.FormulaSpec {
	n := m.children()
	return []kripke.FormulaSpec{
		{
			Name:        "someone is muddy",
			Description: "The father's announcement.",
			Formula:     SomeoneMuddy(n).String(),
		},
		{
			Name:        "a knows own state",
			Description: "Child a knows whether they are muddy.",
			Formula:     KnowsOwnState("a").String(),
		},
		{
			Name:        "common knowledge of mud",
			Description: "It is common knowledge that someone is muddy.",
			Formula:     formula.Common{F: SomeoneMuddy(n)}.String(),
		},
	}
}
