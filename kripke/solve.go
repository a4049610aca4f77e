package kripke

// Formula is anything that can be evaluated at a world of a structure.
// Semantic must not modify ks.
type Formula interface {
	Semantic(ks *Structure, world string) bool
}

// FormulaFunc adapts a plain function to Formula.
type FormulaFunc func(ks *Structure, world string) bool

func (f FormulaFunc) Semantic(ks *Structure, world string) bool { return f(ks, world) }

// NodesNotFollowFormula returns, in structure order, the worlds where f fails.
func (ks *Structure) NodesNotFollowFormula(f Formula) []string {
	var out []string
	for _, n := range ks.names {
		if !f.Semantic(ks, n) {
			out = append(out, n)
		}
	}
	return out
}

// HoldsEverywhere reports whether f holds at every world (true when empty).
func (ks *Structure) HoldsEverywhere(f Formula) bool {
	for _, n := range ks.names {
		if !f.Semantic(ks, n) {
			return false
		}
	}
	return true
}

// SolveStats describes how Solve reached its answer.
type SolveStats struct {
	// Candidates is the number of removal sets evaluated, the accepted one included.
	Candidates int
	// Removed lists the accepted removal set.
	Removed []string
}

// Solve returns the sub-structure left after removing the smallest set of
// worlds (first in Subsets order) that makes f hold at every remaining world.
// The search is exhaustive and always succeeds: removing every world leaves
// an empty structure, where f holds vacuously. ks is not modified.
func Solve(ks *Structure, f Formula) *Structure {
	out, _ := SolveWithStats(ks, f)
	return out
}

// Solve is the method form of the package-level Solve.
func (ks *Structure) Solve(f Formula) *Structure { return Solve(ks, f) }

// SolveWithStats is Solve plus the search statistics.
func SolveWithStats(ks *Structure, f Formula) (*Structure, SolveStats) {
	var stats SolveStats
	for subset := range Subsets(ks.names) {
		stats.Candidates++
		candidate := ks.Clone()
		for _, name := range subset {
			// Subsets only yields names of ks, so removal cannot fail.
			_ = candidate.RemoveNodeByName(name)
		}
		if candidate.HoldsEverywhere(f) {
			stats.Removed = subset
			return candidate, stats
		}
	}
	// Not reached: the full subset is always accepted.
	empty := ks.Clone()
	for _, name := range ks.names {
		_ = empty.RemoveNodeByName(name)
	}
	return empty, stats
}
