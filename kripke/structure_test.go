package kripke

import (
	"errors"
	"testing"
)

func atom(p string) Formula {
	return FormulaFunc(func(ks *Structure, world string) bool {
		w, ok := ks.World(world)
		return ok && w.Assignment[p]
	})
}

// twoWorlds is the indistinguishable p / not-p structure for agent A.
func twoWorlds() *Structure {
	worlds := []World{
		{Name: "w1", Assignment: Assignment{"p": true}},
		{Name: "w2", Assignment: Assignment{"p": false}},
	}
	rel := PerAgent(map[string]PairSet{
		"A": PairsOf([2]string{"w1", "w1"}, [2]string{"w1", "w2"}, [2]string{"w2", "w1"}, [2]string{"w2", "w2"}),
	})
	return New(worlds, rel)
}

func flatTriangle() *Structure {
	worlds := []World{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	rel := Flat(PairsOf([2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"}, [2]string{"a", "a"}))
	return New(worlds, rel)
}

func TestNewKeepsOrderAndReplacesDuplicates(t *testing.T) {
	ks := New([]World{
		{Name: "x", Assignment: Assignment{"p": true}},
		{Name: "y"},
		{Name: "x", Assignment: Assignment{"p": false}},
	}, Flat(PairSet{}))

	names := ks.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Fatalf("Expected names [x y], got %v", names)
	}
	w, _ := ks.World("x")
	if w.Assignment["p"] {
		t.Error("Expected the later duplicate of x to replace the earlier one")
	}
}

func TestNewFromMapIndexesByWorldName(t *testing.T) {
	ks := NewFromMap(map[string]World{
		"k2": {Name: "b"},
		"k1": {Name: "a"},
	}, Flat(PairSet{}))

	if !ks.HasWorld("a") || !ks.HasWorld("b") {
		t.Fatalf("Expected worlds a and b, got %v", ks.Names())
	}
	if ks.HasWorld("k1") {
		t.Error("Expected map keys not to be used as world names")
	}
	if names := ks.Names(); names[0] != "a" {
		t.Errorf("Expected map order by key, got %v", names)
	}
}

func TestFromValue(t *testing.T) {
	if _, err := FromValue([]World{{Name: "a"}}, Flat(PairSet{})); err != nil {
		t.Errorf("Expected slice of worlds to be accepted, got %v", err)
	}
	if _, err := FromValue([]*World{{Name: "a"}}, Flat(PairSet{})); err != nil {
		t.Errorf("Expected slice of world pointers to be accepted, got %v", err)
	}
	if _, err := FromValue(map[string]World{"a": {Name: "a"}}, Flat(PairSet{})); err != nil {
		t.Errorf("Expected map of worlds to be accepted, got %v", err)
	}

	ks, err := FromValue("w1,w2", Flat(PairSet{}))
	if !errors.Is(err, ErrInvalidWorlds) {
		t.Errorf("Expected ErrInvalidWorlds, got %v", err)
	}
	if ks != nil {
		t.Error("Expected no structure on construction error")
	}
}

func TestConstructorClonesRelations(t *testing.T) {
	set := PairsOf([2]string{"a", "b"})
	rel := map[string]PairSet{"A": set}
	ks := New([]World{{Name: "a"}, {Name: "b"}}, PerAgent(rel))

	if err := ks.RemoveNodeByName("a"); err != nil {
		t.Fatalf("RemoveNodeByName: %v", err)
	}
	if !rel["A"].Has(Pair{"a", "b"}) {
		t.Error("Expected caller's relation data to survive removal")
	}
}

func TestRemoveNodeByNameAgentRelations(t *testing.T) {
	ks := twoWorlds()
	if err := ks.RemoveNodeByName("w2"); err != nil {
		t.Fatalf("RemoveNodeByName: %v", err)
	}

	if ks.HasWorld("w2") {
		t.Error("Expected w2 to be removed")
	}
	for _, p := range ks.Relation("A").Pairs() {
		if p.Touches("w2") {
			t.Errorf("Expected no pair touching w2, found %v", p)
		}
	}
	if got := ks.Relation("A").Len(); got != 1 {
		t.Errorf("Expected 1 remaining pair, got %d", got)
	}
}

func TestRemoveNodeByNameFlatRelations(t *testing.T) {
	ks := flatTriangle()
	if err := ks.RemoveNodeByName("a"); err != nil {
		t.Fatalf("RemoveNodeByName: %v", err)
	}

	rel, ok := ks.Relations().FlatSet()
	if !ok {
		t.Fatal("Expected flat relations to stay flat")
	}
	pairs := rel.Pairs()
	if len(pairs) != 1 || pairs[0] != (Pair{"b", "c"}) {
		t.Errorf("Expected only (b,c) to remain, got %v", pairs)
	}
}

func TestRemoveNodeByNameMissing(t *testing.T) {
	ks := flatTriangle()
	before := ks.Relations().Len()

	err := ks.RemoveNodeByName("zzz")
	if !errors.Is(err, ErrWorldNotFound) {
		t.Fatalf("Expected ErrWorldNotFound, got %v", err)
	}
	if ks.Len() != 3 || ks.Relations().Len() != before {
		t.Error("Expected failed removal to leave the structure untouched")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ks := twoWorlds()
	c := ks.Clone()
	if err := c.RemoveNodeByName("w1"); err != nil {
		t.Fatalf("RemoveNodeByName: %v", err)
	}
	if ks.Len() != 2 || ks.Relation("A").Len() != 4 {
		t.Errorf("Expected original to keep 2 worlds and 4 pairs, got %d and %d", ks.Len(), ks.Relation("A").Len())
	}
}

func TestRelationReturnsCopy(t *testing.T) {
	ks := twoWorlds()
	want := ks.Clone()

	r := ks.Relation("A")
	r.Add(Pair{"w2", "w3"})
	r.Remove(Pair{"w1", "w2"})

	got := ks.Relation("A")
	if got.Has(Pair{"w2", "w3"}) || !got.Has(Pair{"w1", "w2"}) || got.Len() != 4 {
		t.Errorf("Expected the structure's A relation to be unchanged, got %v", got)
	}
	if succ := ks.Successors("A", "w2"); len(succ) != 2 {
		t.Errorf("Expected w2 to keep 2 successors, got %v", succ)
	}
	if !ks.Equal(want) {
		t.Error("Expected the structure to equal its earlier clone")
	}

	flat := flatTriangle()
	f := flat.Relations().For("")
	f.Add(Pair{"b", "b"})
	if flat.Relation("").Has(Pair{"b", "b"}) {
		t.Error("Expected flat relation to be unchanged")
	}
}

func TestEqualNil(t *testing.T) {
	var none *Structure
	if twoWorlds().Equal(nil) {
		t.Error("Expected a structure not to equal nil")
	}
	if none.Equal(twoWorlds()) {
		t.Error("Expected nil not to equal a structure")
	}
	if !none.Equal(nil) {
		t.Error("Expected nil to equal nil")
	}
}

func TestEqual(t *testing.T) {
	empty := New(nil, PerAgent(nil))
	tests := []struct {
		name string
		a, b *Structure
		want bool
	}{
		{"same content", twoWorlds(), twoWorlds(), true},
		{"both empty", empty, New(nil, PerAgent(nil)), true},
		{"one empty", twoWorlds(), empty, false},
		{
			"different valuation",
			twoWorlds(),
			New([]World{{Name: "w1", Assignment: Assignment{"p": false}}, {Name: "w2", Assignment: Assignment{"p": false}}}, twoWorlds().Relations()),
			false,
		},
		{
			"insertion order matters",
			twoWorlds(),
			New([]World{{Name: "w2", Assignment: Assignment{"p": false}}, {Name: "w1", Assignment: Assignment{"p": true}}}, twoWorlds().Relations()),
			false,
		},
		{
			"missing agent counts as empty",
			New([]World{{Name: "w"}}, PerAgent(map[string]PairSet{"A": {}})),
			New([]World{{Name: "w"}}, PerAgent(nil)),
			true,
		},
		{
			"agent relation differs",
			New([]World{{Name: "w"}}, PerAgent(map[string]PairSet{"A": PairsOf([2]string{"w", "w"})})),
			New([]World{{Name: "w"}}, PerAgent(nil)),
			false,
		},
		{
			"flat relations compared positionally",
			New([]World{{Name: "a"}, {Name: "b"}}, Flat(PairsOf([2]string{"a", "b"}, [2]string{"b", "a"}))),
			New([]World{{Name: "a"}, {Name: "b"}}, Flat(PairsOf([2]string{"b", "a"}, [2]string{"a", "b"}))),
			false,
		},
		{
			"relation kinds differ",
			New([]World{{Name: "a"}}, Flat(PairSet{})),
			New([]World{{Name: "a"}}, PerAgent(nil)),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructureString(t *testing.T) {
	ks := New([]World{{Name: "w1", Assignment: Assignment{"p": true}}}, PerAgent(map[string]PairSet{"A": PairsOf([2]string{"w1", "w1"})}))
	want := "(W = {(w1,{p: true})}, R = {A: {(w1,w1)}})"
	if got := ks.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
