package kripke

import (
	"encoding/json"
	"fmt"
)

type worldJSON struct {
	Name       string          `json:"name"`
	Assignment map[string]bool `json:"assignment"`
}

type relationsJSON struct {
	Kind   string                 `json:"kind"`
	Pairs  [][2]string            `json:"pairs,omitempty"`
	Agents map[string][][2]string `json:"agents,omitempty"`
}

type structureJSON struct {
	Worlds    []worldJSON `json:"worlds"`
	Relations Relations   `json:"relations"`
}

func pairsToJSON(s PairSet) [][2]string {
	out := make([][2]string, len(s.order))
	for i, p := range s.order {
		out[i] = [2]string{p.From, p.To}
	}
	return out
}

func (r Relations) MarshalJSON() ([]byte, error) {
	out := relationsJSON{Kind: r.kind.String()}
	switch r.kind {
	case FlatRelations:
		out.Pairs = pairsToJSON(r.flat)
	case AgentRelations:
		out.Agents = make(map[string][][2]string, len(r.agents))
		for a, s := range r.agents {
			out.Agents[a] = pairsToJSON(s)
		}
	}
	return json.Marshal(out)
}

func (r *Relations) UnmarshalJSON(data []byte) error {
	var in relationsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "", "flat":
		*r = Flat(PairsOf(in.Pairs...))
	case "agents":
		m := make(map[string]PairSet, len(in.Agents))
		for a, ps := range in.Agents {
			m[a] = PairsOf(ps...)
		}
		*r = PerAgent(m)
	default:
		return fmt.Errorf("kripke: unknown relation kind %q", in.Kind)
	}
	return nil
}

// MarshalJSON keeps world order and the relation kind.
func (ks *Structure) MarshalJSON() ([]byte, error) {
	out := structureJSON{Worlds: make([]worldJSON, len(ks.names)), Relations: ks.relations}
	for i, n := range ks.names {
		w := ks.worlds[n]
		out.Worlds[i] = worldJSON{Name: w.Name, Assignment: w.Assignment}
	}
	return json.Marshal(out)
}

func (ks *Structure) UnmarshalJSON(data []byte) error {
	var in structureJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	worlds := make([]World, len(in.Worlds))
	for i, w := range in.Worlds {
		worlds[i] = World{Name: w.Name, Assignment: w.Assignment}
	}
	*ks = *New(worlds, in.Relations)
	return nil
}
