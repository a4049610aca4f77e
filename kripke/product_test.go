package kripke

import "testing"

func always() Formula { return FormulaFunc(func(*Structure, string) bool { return true }) }

func TestApplyActionModelSingleTrivialAction(t *testing.T) {
	ks := twoWorlds()
	am := NewActionModel(
		[]Action{{Name: "a0", Precondition: always()}},
		map[string]PairSet{"A": PairsOf([2]string{"a0", "a0"})},
	)

	got := ApplyActionModel(ks, am, []string{"A"})

	names := got.Names()
	if len(names) != 2 || names[0] != "w1,a0" || names[1] != "w2,a0" {
		t.Fatalf("Expected worlds [w1,a0 w2,a0], got %v", names)
	}
	w, _ := got.World("w1,a0")
	if !w.Assignment["p"] {
		t.Error("Expected w1,a0 to inherit p from w1")
	}
	want := PairsOf(
		[2]string{"w1,a0", "w1,a0"}, [2]string{"w1,a0", "w2,a0"},
		[2]string{"w2,a0", "w1,a0"}, [2]string{"w2,a0", "w2,a0"},
	)
	if !got.Relation("A").Equal(want) {
		t.Errorf("Expected full relation %v, got %v", want, got.Relation("A"))
	}
}

// Announcing p privately to B: A cannot tell the announcement from a skip.
func TestApplyActionModelPreconditionsAndEquivs(t *testing.T) {
	ks := New([]World{
		{Name: "w1", Assignment: Assignment{"p": true}},
		{Name: "w2", Assignment: Assignment{"p": false}},
	}, PerAgent(map[string]PairSet{
		"A": PairsOf([2]string{"w1", "w1"}, [2]string{"w1", "w2"}, [2]string{"w2", "w1"}, [2]string{"w2", "w2"}),
		"B": PairsOf([2]string{"w1", "w1"}, [2]string{"w1", "w2"}, [2]string{"w2", "w1"}, [2]string{"w2", "w2"}),
	}))
	am := NewActionModel([]Action{
		{Name: "tell", Precondition: atom("p")},
		{Name: "skip", Precondition: always()},
	}, map[string]PairSet{
		"A": PairsOf([2]string{"tell", "tell"}, [2]string{"tell", "skip"}, [2]string{"skip", "tell"}, [2]string{"skip", "skip"}),
		"B": PairsOf([2]string{"tell", "tell"}, [2]string{"skip", "skip"}),
	})

	got := ApplyActionModel(ks, am, []string{"A", "B"})

	if got.Len() != 3 {
		t.Fatalf("Expected 3 worlds, got %v", got.Names())
	}
	if got.HasWorld("w2,tell") {
		t.Error("Expected tell to be impossible where p is false")
	}
	if got.Relation("A").Len() != 9 {
		t.Errorf("Expected A to relate every pair of the 3 worlds, got %v", got.Relation("A"))
	}
	b := got.Relation("B")
	if b.Has(Pair{"w1,tell", "w1,skip"}) {
		t.Error("Expected B to distinguish tell from skip")
	}
	if !b.Has(Pair{"w1,skip", "w2,skip"}) {
		t.Error("Expected B to confuse w1,skip with w2,skip")
	}
	if b.Successors("w1,tell")[0] != "w1,tell" || len(b.Successors("w1,tell")) != 1 {
		t.Errorf("Expected B to know p after tell, got %v", b.Successors("w1,tell"))
	}
}

func TestApplyActionModelBoundsAndSoundness(t *testing.T) {
	ks := flatTriangle()
	am := NewActionModel([]Action{
		{Name: "x", Precondition: always()},
		{Name: "y", Precondition: FormulaFunc(func(_ *Structure, w string) bool { return w != "b" })},
	}, map[string]PairSet{
		"A": PairsOf([2]string{"x", "y"}, [2]string{"y", "y"}),
	})

	got := ApplyActionModel(ks, am, []string{"A", "Z"})

	if got.Len() > ks.Len()*len(am.Actions) {
		t.Errorf("Expected at most %d worlds, got %d", ks.Len()*len(am.Actions), got.Len())
	}
	for _, agent := range []string{"A", "Z"} {
		old, eq := ks.Relation(agent), am.EquivFor(agent)
		for _, p := range got.Relation(agent).Pairs() {
			w1, a1, _ := SplitProductName(p.From)
			w2, a2, _ := SplitProductName(p.To)
			if !old.Has(Pair{w1, w2}) || !eq.Has(Pair{a1, a2}) {
				t.Errorf("Pair %v for %s has no origin in the inputs", p, agent)
			}
		}
	}
	if got.Relation("Z").Len() != 0 {
		t.Error("Expected agent without equivalences to get an empty relation")
	}
	if agents := got.Agents(); len(agents) != 2 {
		t.Errorf("Expected relations for exactly the listed agents, got %v", agents)
	}
}

func TestApplyActionModelNoApplicableAction(t *testing.T) {
	ks := twoWorlds()
	never := FormulaFunc(func(*Structure, string) bool { return false })
	am := NewActionModel([]Action{{Name: "n", Precondition: never}}, map[string]PairSet{"A": PairsOf([2]string{"n", "n"})})

	got := ApplyActionModel(ks, am, []string{"A"})
	if got.Len() != 0 || got.Relations().Len() != 0 {
		t.Errorf("Expected an empty structure, got %v", got)
	}
}

func TestApplyActionModelChains(t *testing.T) {
	ks := twoWorlds()
	am := NewActionModel(
		[]Action{{Name: "a0", Precondition: always()}},
		map[string]PairSet{"A": PairsOf([2]string{"a0", "a0"})},
	)

	got := ks.Apply(am, []string{"A"}).Apply(am, []string{"A"})
	if !got.HasWorld("w1,a0,a0") {
		t.Fatalf("Expected chained names, got %v", got.Names())
	}
	if segs := SplitName("w1,a0,a0"); len(segs) != 3 || segs[0] != "w1" {
		t.Errorf("Expected 3 segments starting with w1, got %v", segs)
	}
	if ks.Len() != 2 || !ks.HasWorld("w1") {
		t.Error("Expected input structure to be untouched")
	}
}

func TestEquivForReturnsCopy(t *testing.T) {
	am := NewActionModel([]Action{{Name: "x"}, {Name: "y"}}, map[string]PairSet{
		"A": PairsOf([2]string{"x", "x"}),
	})
	eq := am.EquivFor("A")
	eq.Add(Pair{"x", "y"})
	missing := am.EquivFor("B")
	missing.Add(Pair{"y", "y"})

	if am.EquivFor("A").Has(Pair{"x", "y"}) || am.EquivFor("A").Len() != 1 {
		t.Errorf("Expected A's equivalences to be unchanged, got %v", am.EquivFor("A"))
	}
	if am.EquivFor("B").Len() != 0 {
		t.Errorf("Expected B to stay empty, got %v", am.EquivFor("B"))
	}
}

func TestIsEquivalence(t *testing.T) {
	am := NewActionModel([]Action{{Name: "x"}, {Name: "y"}}, map[string]PairSet{
		"A": PairsOf([2]string{"x", "x"}, [2]string{"y", "y"}, [2]string{"x", "y"}, [2]string{"y", "x"}),
		"B": PairsOf([2]string{"x", "x"}, [2]string{"y", "y"}, [2]string{"x", "y"}),
		"C": PairsOf([2]string{"x", "x"}),
	})
	if !am.IsEquivalence("A") {
		t.Error("Expected A to be an equivalence")
	}
	if am.IsEquivalence("B") {
		t.Error("Expected B not to be symmetric")
	}
	if am.IsEquivalence("C") {
		t.Error("Expected C not to be reflexive")
	}
}
