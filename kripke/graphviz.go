package kripke

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// DiagramOption configures DOT and Mermaid rendering.
type DiagramOption func(*diagramOptions)

type diagramOptions struct {
	selfLoops   bool
	showValues  bool
	graphName   string
	agentFilter map[string]bool
}

// WithSelfLoops includes reflexive edges, hidden by default.
func WithSelfLoops() DiagramOption {
	return func(opts *diagramOptions) {
		opts.selfLoops = true
	}
}

// WithoutValuation leaves the true propositions out of node labels.
func WithoutValuation() DiagramOption {
	return func(opts *diagramOptions) {
		opts.showValues = false
	}
}

// WithGraphName sets the DOT graph identifier.
func WithGraphName(name string) DiagramOption {
	return func(opts *diagramOptions) {
		opts.graphName = name
	}
}

// WithAgents restricts edges to the given agents.
func WithAgents(agents ...string) DiagramOption {
	return func(opts *diagramOptions) {
		opts.agentFilter = make(map[string]bool, len(agents))
		for _, a := range agents {
			opts.agentFilter[a] = true
		}
	}
}

func newDiagramOptions(options []DiagramOption) *diagramOptions {
	opts := &diagramOptions{showValues: true, graphName: "KripkeStructure"}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// edge is one rendered arrow with the agents that hold it.
type edge struct {
	from, to string
	agents   []string
}

// edges merges the per-agent relations into labelled edges, in first-seen
// order. Flat relations produce unlabelled edges.
func (ks *Structure) edges(opts *diagramOptions) []edge {
	var out []edge
	index := make(map[Pair]int)
	add := func(p Pair, agent string) {
		if p.From == p.To && !opts.selfLoops {
			return
		}
		i, ok := index[p]
		if !ok {
			i = len(out)
			index[p] = i
			out = append(out, edge{from: p.From, to: p.To})
		}
		if agent != "" {
			out[i].agents = append(out[i].agents, agent)
		}
	}

	switch ks.relations.kind {
	case FlatRelations:
		for _, p := range ks.relations.flat.order {
			add(p, "")
		}
	case AgentRelations:
		for _, agent := range ks.relations.Agents() {
			if opts.agentFilter != nil && !opts.agentFilter[agent] {
				continue
			}
			for _, p := range ks.relations.agents[agent].order {
				add(p, agent)
			}
		}
	}
	for i := range out {
		sort.Strings(out[i].agents)
	}
	return out
}

// dotEscaper escapes text for a double-quoted DOT string.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// nodeLabel puts each product-update segment on its own line. The result is
// already escaped for a quoted DOT string.
func nodeLabel(w World, showValues bool) string {
	segments := SplitName(w.Name)
	for i, s := range segments {
		segments[i] = dotEscaper.Replace(s)
	}
	label := strings.Join(segments, `\n`)
	if showValues {
		if props := w.Assignment.True(); len(props) > 0 {
			label += `\n{` + dotEscaper.Replace(strings.Join(props, ", ")) + "}"
		}
	}
	return label
}

// dotID returns name unquoted when it is a plain DOT identifier.
func dotID(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return `"` + dotEscaper.Replace(name) + `"`
	}
	return name
}

// WriteDOT writes a Graphviz DOT rendering of ks to w.
func (ks *Structure) WriteDOT(w io.Writer, options ...DiagramOption) error {
	_, err := io.WriteString(w, ks.GenerateGraphviz(options...))
	return err
}

// GenerateGraphviz generates a Graphviz DOT representation of the structure.
func (ks *Structure) GenerateGraphviz(options ...DiagramOption) string {
	opts := newDiagramOptions(options)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %s {\n", dotID(opts.graphName)))
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")

	for _, n := range ks.names {
		sb.WriteString(fmt.Sprintf("  %q [label=\"%s\"];\n", n, nodeLabel(ks.worlds[n], opts.showValues)))
	}
	sb.WriteString("\n")

	for _, e := range ks.edges(opts) {
		if len(e.agents) > 0 {
			sb.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", e.from, e.to, strings.Join(e.agents, "")))
		} else {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", e.from, e.to))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
