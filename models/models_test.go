package models

import "testing"

func TestAllSorted(t *testing.T) {
	all := All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(all))
	}
	if all[0].Name() != "muddy" || all[1].Name() != "werewolves" {
		t.Errorf("Unexpected order %s, %s", all[0].Name(), all[1].Name())
	}
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("werewolves")
	if !ok {
		t.Fatal("Expected to find werewolves")
	}
	if m.BuildStructure().Len() == 0 {
		t.Error("Expected a non-empty default structure")
	}
	if _, ok := Lookup("poker"); ok {
		t.Error("Did not expect to find poker")
	}
}
