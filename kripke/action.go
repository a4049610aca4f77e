package kripke

import "sort"

// Action is one event of an action model, executable where Precondition holds.
type Action struct {
	Name         string
	Precondition Formula
}

// ActionModel is a catalog of actions plus, per agent, which actions that
// agent cannot tell apart.
type ActionModel struct {
	Actions []Action
	Equivs  map[string]PairSet
}

// NewActionModel copies the action list and the equivalence sets.
func NewActionModel(actions []Action, equivs map[string]PairSet) *ActionModel {
	am := &ActionModel{
		Actions: append([]Action(nil), actions...),
		Equivs:  make(map[string]PairSet, len(equivs)),
	}
	for a, s := range equivs {
		am.Equivs[a] = s.Clone()
	}
	return am
}

// Action looks up an action by name.
func (am *ActionModel) Action(name string) (Action, bool) {
	for _, a := range am.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// EquivFor returns a copy of the agent's indistinguishability set; empty
// when absent.
func (am *ActionModel) EquivFor(agent string) PairSet {
	return am.Equivs[agent].Clone()
}

// Agents returns the agents with an equivalence set, sorted.
func (am *ActionModel) Agents() []string {
	out := make([]string, 0, len(am.Equivs))
	for a := range am.Equivs {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// IsEquivalence reports whether the agent's set is reflexive, symmetric and
// transitive over the model's actions. Product update does not require it.
func (am *ActionModel) IsEquivalence(agent string) bool {
	eq := am.Equivs[agent]
	for _, a := range am.Actions {
		if !eq.Has(Pair{a.Name, a.Name}) {
			return false
		}
	}
	for _, p := range eq.order {
		if !eq.Has(Pair{p.To, p.From}) {
			return false
		}
		for _, q := range eq.Successors(p.To) {
			if !eq.Has(Pair{p.From, q}) {
				return false
			}
		}
	}
	return true
}
