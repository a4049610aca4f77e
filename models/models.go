// Package models lists the built-in scenario generators.
package models

import (
	"slices"
	"strings"

	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/models/muddy"
	"github.com/rfielding/kripke-del/models/werewolves"
)

// All returns every built-in model with its default parameters, sorted by name.
func All() []kripke.ModelSpec {
	all := []kripke.ModelSpec{
		muddy.Model{},
		werewolves.Model{},
	}
	slices.SortFunc(all, func(a, b kripke.ModelSpec) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return all
}

// Lookup finds a built-in model by name.
func Lookup(name string) (kripke.ModelSpec, bool) {
	for _, m := range All() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
