package werewolves

import (
	"github.com/rfielding/kripke-del/formula"
	"github.com/rfielding/kripke-del/kripke"
)

// WerewolfActionModel is the werewolves waking up together. Action "w"+i+j
// happens when i and j are the werewolves; a player outside the pair cannot
// tell these actions apart, a werewolf sees exactly which one happened.
func WerewolfActionModel(players int) *kripke.ActionModel {
	agents := Agents[:players]
	var actions []kripke.Action
	for _, i := range agents {
		for _, j := range agents {
			if i < j {
				actions = append(actions, kripke.Action{
					Name: Werewolf + i + j,
					Precondition: formula.And{
						Left:  formula.Atom{Name: RoleOf(Werewolf, i)},
						Right: formula.Atom{Name: RoleOf(Werewolf, j)},
					},
				})
			}
		}
	}

	equivs := make(map[string]kripke.PairSet, len(agents))
	for _, a := range agents {
		outside := func(act kripke.Action) bool {
			return act.Name[1:2] != a && act.Name[2:3] != a
		}
		var s kripke.PairSet
		for _, u := range actions {
			for _, v := range actions {
				if (outside(u) && outside(v)) || u.Name == v.Name {
					s.Add(kripke.Pair{From: u.Name, To: v.Name})
				}
			}
		}
		equivs[a] = s
	}
	return kripke.NewActionModel(actions, equivs)
}

// SeerActionModel is the seer looking at another player's card. Action
// "S"+i+r+j happens when i is the seer and j holds role r; only the seer
// learns which one happened.
func SeerActionModel(players int) *kripke.ActionModel {
	agents := Agents[:players]
	var actions []kripke.Action
	for _, i := range agents {
		for _, j := range agents {
			for _, r := range Roles {
				if i == j {
					continue
				}
				actions = append(actions, kripke.Action{
					Name: "S" + i + r + j,
					Precondition: formula.And{
						Left:  formula.Atom{Name: RoleOf(Seer, i)},
						Right: formula.Atom{Name: RoleOf(r, j)},
					},
				})
			}
		}
	}

	equivs := make(map[string]kripke.PairSet, len(agents))
	for _, a := range agents {
		var s kripke.PairSet
		for _, u := range actions {
			for _, v := range actions {
				if (u.Name[1:2] != a && v.Name[1:2] != a) || u.Name == v.Name {
					s.Add(kripke.Pair{From: u.Name, To: v.Name})
				}
			}
		}
		equivs[a] = s
	}
	return kripke.NewActionModel(actions, equivs)
}
