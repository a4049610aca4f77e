package kripke

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Assignment maps proposition names to truth values. A missing key is left
// undefined here; formula semantics decide how to read it.
type Assignment map[string]bool

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Equal reports whether both assignments hold the same keys and values.
func (a Assignment) Equal(other Assignment) bool {
	return maps.Equal(a, other)
}

// True returns the propositions assigned true, sorted.
func (a Assignment) True() []string {
	var out []string
	for p, v := range a {
		if v {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (a Assignment) String() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %t", k, a[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// World is a node of a Kripke structure: a name plus a valuation.
type World struct {
	Name       string
	Assignment Assignment
}

// NewWorld creates a world owning a copy of the assignment.
func NewWorld(name string, assignment Assignment) World {
	return World{Name: name, Assignment: assignment.Clone()}
}

// Equal reports whether names and assignments match.
func (w World) Equal(other World) bool {
	return w.Name == other.Name && w.Assignment.Equal(other.Assignment)
}

func (w World) String() string {
	return "(" + w.Name + "," + w.Assignment.String() + ")"
}
