package kripke

// FormulaSpec describes one named formula attached to a model.
type FormulaSpec struct {
	Name        string // e.g. "a knows own role"
	Description string // human meaning
	Formula     string // textual formula syntax, parsed by the formula package
}

// ModelSpec is the small API that model packages implement.
type ModelSpec interface {
	Name() string
	OriginalText() string
	BuildStructure() *Structure
	Formulas() []FormulaSpec
}
