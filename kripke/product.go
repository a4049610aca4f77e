package kripke

import "strings"

// NameSeparator joins a world name and an action name in product update, so
// every name records the events that led to it.
const NameSeparator = ","

// ProductName is the name of the world produced by executing action in world.
func ProductName(world, action string) string {
	return world + NameSeparator + action
}

// SplitName splits a product-update world name into its origin segments.
func SplitName(name string) []string {
	return strings.Split(name, NameSeparator)
}

// SplitProductName separates the last action from the world it was applied
// in. ok is false for names that never went through product update.
func SplitProductName(name string) (world, action string, ok bool) {
	i := strings.LastIndex(name, NameSeparator)
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+len(NameSeparator):], true
}

type productWorld struct {
	world  World
	action Action
	name   string
}

// ApplyActionModel is the product update of ks with am.
//
// It keeps a world (w, a) for every world w and action a whose precondition
// holds at w in ks. The new world is named ProductName(w, a) and inherits the
// valuation of w. For each listed agent, (w1,a1) reaches (w2,a2) when the
// agent relates w1 to w2 in ks and a1 to a2 in am. Agents not listed get no
// relation. Neither ks nor am is modified.
func ApplyActionModel(ks *Structure, am *ActionModel, agents []string) *Structure {
	var pairs []productWorld
	for _, n := range ks.names {
		w := ks.worlds[n]
		for _, a := range am.Actions {
			if a.Precondition.Semantic(ks, n) {
				pairs = append(pairs, productWorld{world: w, action: a, name: ProductName(w.Name, a.Name)})
			}
		}
	}

	worlds := make([]World, len(pairs))
	for i, p := range pairs {
		worlds[i] = World{Name: p.name, Assignment: p.world.Assignment}
	}

	rel := make(map[string]PairSet, len(agents))
	for _, agent := range agents {
		old := ks.relations.view(agent)
		eq := am.Equivs[agent]
		var set PairSet
		for _, p1 := range pairs {
			for _, p2 := range pairs {
				if old.Has(Pair{p1.world.Name, p2.world.Name}) && eq.Has(Pair{p1.action.Name, p2.action.Name}) {
					set.Add(Pair{p1.name, p2.name})
				}
			}
		}
		rel[agent] = set
	}

	return New(worlds, PerAgent(rel))
}

// Apply is the method form of ApplyActionModel.
func (ks *Structure) Apply(am *ActionModel, agents []string) *Structure {
	return ApplyActionModel(ks, am, agents)
}
