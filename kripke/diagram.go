package kripke

import (
	"fmt"
	"io"
	"strings"
)

// WriteMermaid writes a Mermaid stateDiagram-v2 representation of ks to w.
// World names may contain separators Mermaid rejects, so states get
// positional ids and carry the world name as their description.
func (ks *Structure) WriteMermaid(w io.Writer, options ...DiagramOption) error {
	_, err := io.WriteString(w, ks.GenerateMermaid(options...))
	return err
}

// mermaidEscaper rewrites characters that end a quoted state description.
var mermaidEscaper = strings.NewReplacer(`"`, "#quot;", "\n", " ")

// GenerateMermaid returns the Mermaid rendering as a string.
func (ks *Structure) GenerateMermaid(options ...DiagramOption) string {
	opts := newDiagramOptions(options)
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	ids := make(map[string]string, len(ks.names))
	for i, n := range ks.names {
		id := fmt.Sprintf("s%d", i)
		ids[n] = id
		desc := n
		if opts.showValues {
			if props := ks.worlds[n].Assignment.True(); len(props) > 0 {
				desc += " {" + strings.Join(props, ", ") + "}"
			}
		}
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", mermaidEscaper.Replace(desc), id))
	}

	for _, e := range ks.edges(opts) {
		if len(e.agents) > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", ids[e.from], ids[e.to], strings.Join(e.agents, "")))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", ids[e.from], ids[e.to]))
		}
	}
	return sb.String()
}
