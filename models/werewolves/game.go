// Package werewolves models the night phase of One Night Ultimate Werewolf
// as a sequence of epistemic events over a Kripke structure.
//
// A world is one dealing of the roles to the players. Player i only knows
// their own card, so i relates two worlds when they deal i the same role.
// The werewolves then open their eyes together and the seer looks at one
// other card; both are product updates with private actions.
package werewolves

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rfielding/kripke-del/kripke"
)

// Agents names the players by single letters, in seating order.
var Agents = []string{"a", "b", "c", "d", "e"}

// Role letters.
const (
	Townsperson = "t"
	Werewolf    = "w"
	Seer        = "s"
	Fool        = "f"
	Minion      = "m"
)

// Roles lists every role letter.
var Roles = []string{Townsperson, Werewolf, Seer, Fool, Minion}

// ErrInvalidRoles is returned for role strings the game cannot deal.
var ErrInvalidRoles = errors.New("werewolves: invalid roles")

// Phase is the structure reached after one epistemic event.
type Phase struct {
	Name      string
	Structure *kripke.Structure
}

// Game holds the dealt roles and the current knowledge structure.
type Game struct {
	Roles     string
	Agents    []string
	Structure *kripke.Structure
}

// RoleOf names the proposition "agent holds role".
func RoleOf(role, agent string) string { return role + agent }

// NewGame builds the initial structure for roles, one letter per player.
func NewGame(roles string) (*Game, error) {
	if len(roles) == 0 || len(roles) > len(Agents) {
		return nil, fmt.Errorf("%w: need 1 to %d players, got %d", ErrInvalidRoles, len(Agents), len(roles))
	}
	for _, r := range roles {
		if !strings.ContainsRune(strings.Join(Roles, ""), r) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRoles, r)
		}
	}

	agents := Agents[:len(roles)]
	var worlds []kripke.World
	for _, deal := range DistinctPermutations(roles) {
		assignment := make(kripke.Assignment, len(deal))
		for i, r := range deal {
			assignment[RoleOf(string(r), agents[i])] = true
		}
		worlds = append(worlds, kripke.World{Name: deal, Assignment: assignment})
	}

	rel := make(map[string]kripke.PairSet, len(agents))
	for i, agent := range agents {
		var s kripke.PairSet
		for _, u := range worlds {
			for _, v := range worlds {
				if u.Name[i] == v.Name[i] {
					s.Add(kripke.Pair{From: u.Name, To: v.Name})
				}
			}
		}
		rel[agent] = s
	}

	return &Game{
		Roles:     roles,
		Agents:    agents,
		Structure: kripke.New(worlds, kripke.PerAgent(rel)),
	}, nil
}

// Apply replaces the structure with its product update by am.
func (g *Game) Apply(am *kripke.ActionModel) {
	g.Structure = kripke.ApplyActionModel(g.Structure, am, g.Agents)
}

// Night runs the werewolf phase when two werewolves are dealt and the seer
// phase when one seer is, returning the structure after each.
func (g *Game) Night() []Phase {
	var phases []Phase
	if strings.Count(g.Roles, Werewolf) == 2 {
		g.Apply(WerewolfActionModel(len(g.Agents)))
		phases = append(phases, Phase{Name: "werewolves", Structure: g.Structure})
	}
	if strings.Count(g.Roles, Seer) == 1 {
		g.Apply(SeerActionModel(len(g.Agents)))
		phases = append(phases, Phase{Name: "seer", Structure: g.Structure})
	}
	return phases
}
