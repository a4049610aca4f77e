package werewolves

import "github.com/rfielding/kripke-del/kripke"

// DefaultRoles deals two werewolves and a seer to three players.
const DefaultRoles = "wws"

// Model exposes the game through kripke.ModelSpec.
type Model struct {
	Roles string
}

func (Model) Name() string { return "werewolves" }

func (Model) OriginalText() string {
	return `Scenario: One Night Ultimate Werewolf, night phase.

Each player holds one role card and sees only their own. The werewolves
open their eyes and see each other; the seer then looks at one other
player's card. Nobody else learns what happened, only that it happened.`
}

func (m Model) roles() string {
	if m.Roles == "" {
		return DefaultRoles
	}
	return m.Roles
}

// BuildStructure returns the structure before the night; an empty structure
// when the roles cannot be dealt.
func (m Model) BuildStructure() *kripke.Structure {
	g, err := NewGame(m.roles())
	if err != nil {
		return kripke.New(nil, kripke.PerAgent(nil))
	}
	return g.Structure
}

func (m Model) Formulas() []kripke.FormulaSpec {
	return []kripke.FormulaSpec{
		{
			Name:        "a knows own role",
			Description: "Player a always knows which card they hold.",
			Formula:     "(wa -> K_a wa) & (sa -> K_a sa)",
		},
		{
			Name:        "werewolves know each other",
			Description: "After the night, a werewolf knows the other werewolf.",
			Formula:     "(wa & wb) -> K_a wb",
		},
		{
			Name:        "seer is not known",
			Description: "No player other than the seer knows who the seer is.",
			Formula:     "sc -> (!K_a sc & !K_b sc)",
		},
	}
}
