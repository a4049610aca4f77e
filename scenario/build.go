package scenario

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rfielding/kripke-del/formula"
	"github.com/rfielding/kripke-del/kripke"
)

// StepKind names what a step does.
type StepKind string

const (
	KindAnnounce StepKind = "announce"
	KindUpdate   StepKind = "update"
	KindCheck    StepKind = "check"
)

// Step is a compiled step. Formula is set for announce and check,
// Actions and Agents for update.
type Step struct {
	Kind    StepKind
	Label   string
	Formula formula.Formula
	Actions *kripke.ActionModel
	Agents  []string
}

// Compiled is a scenario ready to run.
type Compiled struct {
	Name      string
	Structure *kripke.Structure
	Steps     []Step
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScenario, fmt.Sprintf(format, args...))
}

// Build validates the file, builds the initial structure and parses every
// formula once.
func (f *File) Build() (*Compiled, error) {
	ks, err := f.structure()
	if err != nil {
		return nil, err
	}
	c := &Compiled{Name: f.Name, Structure: ks}
	for i, spec := range f.Steps {
		step, err := f.buildStep(spec)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		c.Steps = append(c.Steps, step)
	}
	return c, nil
}

func (f *File) structure() (*kripke.Structure, error) {
	seen := make(map[string]bool, len(f.Worlds))
	worlds := make([]kripke.World, 0, len(f.Worlds))
	for _, w := range f.Worlds {
		if w.Name == "" {
			return nil, invalid("world without a name")
		}
		if strings.Contains(w.Name, kripke.NameSeparator) {
			return nil, invalid("world name %q contains %q", w.Name, kripke.NameSeparator)
		}
		if seen[w.Name] {
			return nil, invalid("duplicate world %q", w.Name)
		}
		seen[w.Name] = true
		worlds = append(worlds, kripke.NewWorld(w.Name, w.Assignment))
	}

	pairs := func(raw [][]string, where string) (kripke.PairSet, error) {
		var s kripke.PairSet
		for _, p := range raw {
			if len(p) != 2 {
				return s, invalid("%s: pair %v must have two worlds", where, p)
			}
			for _, name := range p {
				if !seen[name] {
					return s, invalid("%s: unknown world %q", where, name)
				}
			}
			s.Add(kripke.Pair{From: p[0], To: p[1]})
		}
		return s, nil
	}

	rel := f.Relations
	switch {
	case rel.Flat != nil && rel.Agents != nil:
		return nil, invalid("relations must be either flat or per agent")
	case rel.Flat != nil:
		s, err := pairs(rel.Flat, "flat relation")
		if err != nil {
			return nil, err
		}
		return kripke.New(worlds, kripke.Flat(s)), nil
	default:
		m := make(map[string]kripke.PairSet, len(rel.Agents)+len(f.Agents))
		for _, a := range f.Agents {
			m[a] = kripke.PairSet{}
		}
		for agent, raw := range rel.Agents {
			if len(f.Agents) > 0 && !slices.Contains(f.Agents, agent) {
				return nil, invalid("relation for undeclared agent %q", agent)
			}
			s, err := pairs(raw, "relation of "+agent)
			if err != nil {
				return nil, err
			}
			m[agent] = s
		}
		if len(m) == 0 {
			return kripke.New(worlds, kripke.Flat(kripke.PairSet{})), nil
		}
		return kripke.New(worlds, kripke.PerAgent(m)), nil
	}
}

func (f *File) buildStep(spec StepSpec) (Step, error) {
	set := 0
	if spec.Announce != "" {
		set++
	}
	if spec.Update != nil {
		set++
	}
	if spec.Check != "" {
		set++
	}
	if set != 1 {
		return Step{}, invalid("exactly one of announce, update or check must be set")
	}

	switch {
	case spec.Announce != "":
		phi, err := formula.Parse(spec.Announce)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return Step{Kind: KindAnnounce, Label: phi.String(), Formula: phi}, nil
	case spec.Check != "":
		phi, err := formula.Parse(spec.Check)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return Step{Kind: KindCheck, Label: phi.String(), Formula: phi}, nil
	default:
		return f.buildUpdate(spec.Update)
	}
}

func (f *File) buildUpdate(spec *UpdateSpec) (Step, error) {
	if len(spec.Actions) == 0 {
		return Step{}, invalid("update without actions")
	}
	names := make(map[string]bool, len(spec.Actions))
	actions := make([]kripke.Action, 0, len(spec.Actions))
	labels := make([]string, 0, len(spec.Actions))
	for _, a := range spec.Actions {
		switch {
		case a.Name == "":
			return Step{}, invalid("action without a name")
		case strings.Contains(a.Name, kripke.NameSeparator):
			return Step{}, invalid("action name %q contains %q", a.Name, kripke.NameSeparator)
		case names[a.Name]:
			return Step{}, invalid("duplicate action %q", a.Name)
		}
		names[a.Name] = true

		var pre formula.Formula = formula.Top{}
		if a.Precondition != "" {
			var err error
			if pre, err = formula.Parse(a.Precondition); err != nil {
				return Step{}, fmt.Errorf("%w: action %s: %w", ErrInvalidScenario, a.Name, err)
			}
		}
		actions = append(actions, kripke.Action{Name: a.Name, Precondition: pre})
		labels = append(labels, a.Name)
	}

	equivs := make(map[string]kripke.PairSet, len(spec.Equivs))
	for agent, raw := range spec.Equivs {
		var s kripke.PairSet
		for _, p := range raw {
			if len(p) != 2 {
				return Step{}, invalid("equivalence of %s: pair %v must have two actions", agent, p)
			}
			for _, name := range p {
				if !names[name] {
					return Step{}, invalid("equivalence of %s: unknown action %q", agent, name)
				}
			}
			s.Add(kripke.Pair{From: p[0], To: p[1]})
		}
		equivs[agent] = s
	}

	agents := spec.Agents
	if len(agents) == 0 {
		agents = f.Agents
	}
	if len(agents) == 0 {
		for agent := range equivs {
			agents = append(agents, agent)
		}
		slices.Sort(agents)
	}
	if len(agents) == 0 {
		return Step{}, invalid("update names no agents")
	}

	return Step{
		Kind:    KindUpdate,
		Label:   strings.Join(labels, " "),
		Actions: kripke.NewActionModel(actions, equivs),
		Agents:  slices.Clone(agents),
	}, nil
}

// FromStructure writes a structure back out as a scenario file without steps.
func FromStructure(name string, ks *kripke.Structure) *File {
	file := &File{Name: name}
	for _, w := range ks.Worlds() {
		file.Worlds = append(file.Worlds, WorldSpec{Name: w.Name, Assignment: w.Assignment.Clone()})
	}
	raw := func(s kripke.PairSet) [][]string {
		out := make([][]string, 0, s.Len())
		for _, p := range s.Pairs() {
			out = append(out, []string{p.From, p.To})
		}
		return out
	}
	rel := ks.Relations()
	if flat, ok := rel.FlatSet(); ok {
		file.Relations.Flat = raw(flat)
		return file
	}
	file.Agents = rel.Agents()
	file.Relations.Agents = make(map[string][][]string, len(file.Agents))
	for _, a := range file.Agents {
		file.Relations.Agents[a] = raw(rel.For(a))
	}
	return file
}
