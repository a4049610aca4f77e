package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rfielding/kripke-del/scenario"
)

const twoWorlds = `
name: two worlds
agents: [A]
worlds:
  - name: w1
    assignment: {p: true}
  - name: w2
    assignment: {p: false}
relations:
  agents:
    A: [[w1, w1], [w1, w2], [w2, w1], [w2, w2]]
steps:
  - announce: p
  - check: K_A p
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := New().WithOutput(&stdout, &stderr).ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestApp_Version(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "kripke-del version") {
		t.Errorf("version output missing 'kripke-del version', got: %s", out)
	}
}

func TestApp_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"Kripke structure", "run", "solve", "render", "werewolves", "history"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Run(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	out, logs, err := execute(t, "run", path)
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}
	if !strings.Contains(out, "removed [w2] after 3 candidates") {
		t.Errorf("run output missing solve summary, got: %s", out)
	}
	if !strings.Contains(out, "holds") {
		t.Errorf("run output missing check result, got: %s", out)
	}
	if !strings.Contains(logs, `"candidates":3`) {
		t.Errorf("expected structured logs on stderr, got: %s", logs)
	}
}

func TestApp_RunJSON(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	out, _, err := execute(t, "run", "--json", path)
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}
	var report struct {
		Scenario string `json:"scenario"`
		Passed   bool   `json:"passed"`
		Steps    []struct {
			Kind    string   `json:"kind"`
			Removed []string `json:"removed"`
		} `json:"steps"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if report.Scenario != "two worlds" || !report.Passed || len(report.Steps) != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Steps[0].Kind != "announce" || len(report.Steps[0].Removed) != 1 {
		t.Errorf("unexpected announce step %+v", report.Steps[0])
	}
}

func TestApp_RunFailingCheck(t *testing.T) {
	path := writeScenario(t, strings.Replace(twoWorlds, "check: K_A p", "check: K_A !p", 1))
	out, _, err := execute(t, "run", path)
	if !errors.Is(err, ErrChecksFailed) {
		t.Fatalf("expected ErrChecksFailed, got %v", err)
	}
	if !strings.Contains(out, "FAILS at [w1]") {
		t.Errorf("expected failing world in output, got: %s", out)
	}
}

func TestApp_RunMaxWorlds(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	_, _, err := execute(t, "--max-worlds", "1", "run", path)
	if !errors.Is(err, scenario.ErrTooManyWorlds) {
		t.Fatalf("expected ErrTooManyWorlds, got %v", err)
	}
}

func TestApp_RunMissingFile(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "none.yaml"))
	if !errors.Is(err, scenario.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
}

func TestApp_InvalidFlag(t *testing.T) {
	_, _, err := execute(t, "--log-format", "xml", "version")
	if err == nil {
		t.Fatal("expected an invalid log format to be rejected")
	}
}

func TestApp_FlagsOverrideInvalidEnv(t *testing.T) {
	t.Setenv("KRIPKE_LOG_FORMAT", "xml")

	if _, _, err := execute(t, "version"); err == nil {
		t.Fatal("expected an invalid environment log format to be rejected")
	}
	if _, _, err := execute(t, "--log-format", "json", "version"); err != nil {
		t.Fatalf("expected --log-format to replace the environment value, got %v", err)
	}
}

func TestApp_Solve(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	out, _, err := execute(t, "solve", path, "p")
	if err != nil {
		t.Fatalf("solve command failed: %v", err)
	}
	if !strings.Contains(out, "w1") || strings.Contains(out, "w2") {
		t.Errorf("expected only w1 to survive, got: %s", out)
	}
}

func TestApp_SolveBadFormula(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	if _, _, err := execute(t, "solve", path, "p &"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestApp_Check(t *testing.T) {
	path := writeScenario(t, twoWorlds)
	out, _, err := execute(t, "check", path, "M_A p")
	if err != nil {
		t.Fatalf("check command failed: %v", err)
	}
	if strings.Count(out, "true") != 2 {
		t.Errorf("expected M_A p at both worlds, got: %s", out)
	}

	if _, _, err := execute(t, "check", path, "EF{A} !p & AG (p | !p)"); err != nil {
		t.Errorf("expected temporal check to hold everywhere, got %v", err)
	}

	if _, _, err := execute(t, "check", path, "p"); !errors.Is(err, ErrChecksFailed) {
		t.Errorf("expected ErrChecksFailed for p, got %v", err)
	}
}

func TestApp_Render(t *testing.T) {
	path := writeScenario(t, twoWorlds)

	out, _, err := execute(t, "render", path)
	if err != nil {
		t.Fatalf("render command failed: %v", err)
	}
	if !strings.HasPrefix(out, "digraph two_worlds {") {
		t.Errorf("expected a DOT graph, got: %s", out)
	}
	if !strings.Contains(out, `"w1" -> "w2" [label="A"]`) {
		t.Errorf("expected an A edge, got: %s", out)
	}

	out, _, err = execute(t, "render", "--format", "mermaid", "--final", path)
	if err != nil {
		t.Fatalf("render --final failed: %v", err)
	}
	if !strings.HasPrefix(out, "stateDiagram-v2") || strings.Contains(out, "w2") {
		t.Errorf("expected a mermaid diagram of the final structure, got: %s", out)
	}

	if _, _, err := execute(t, "render", "--format", "png", path); err == nil {
		t.Error("expected an unknown format to fail")
	}
}

func TestApp_Werewolves(t *testing.T) {
	out, _, err := execute(t, "werewolves")
	if err != nil {
		t.Fatalf("werewolves command failed: %v", err)
	}
	for _, want := range []string{`Deal "wws": 3 worlds`, "After werewolves: 3 worlds", "After seer"} {
		if !strings.Contains(out, want) {
			t.Errorf("werewolves output missing %q, got: %s", want, out)
		}
	}

	if _, _, err := execute(t, "werewolves", "wxq"); err == nil {
		t.Error("expected invalid roles to fail")
	}
}

func TestApp_ModelsExportRoundTrip(t *testing.T) {
	out, _, err := execute(t, "models")
	if err != nil {
		t.Fatalf("models command failed: %v", err)
	}
	if !strings.Contains(out, "muddy") || !strings.Contains(out, "werewolves") {
		t.Errorf("models output missing a model, got: %s", out)
	}

	exported, _, err := execute(t, "models", "export", "muddy")
	if err != nil {
		t.Fatalf("models export failed: %v", err)
	}
	path := writeScenario(t, exported)
	runOut, _, err := execute(t, "run", path)
	// "someone is muddy" fails at 000 until it is announced.
	if !errors.Is(err, ErrChecksFailed) {
		t.Fatalf("expected the exported muddy checks to partly fail, got %v\n%s", err, runOut)
	}
	if !strings.Contains(runOut, "Scenario: muddy (8 worlds)") {
		t.Errorf("unexpected run output: %s", runOut)
	}

	if _, _, err := execute(t, "models", "export", "poker"); err == nil {
		t.Error("expected an unknown model to fail")
	}
}

func TestApp_History(t *testing.T) {
	t.Setenv("KRIPKE_DB", "")
	db := filepath.Join(t.TempDir(), "runs.db")
	path := writeScenario(t, twoWorlds)

	if _, _, err := execute(t, "history"); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}

	out, _, err := execute(t, "--db", db, "run", "--record", path)
	if err != nil {
		t.Fatalf("run --record failed: %v", err)
	}
	idx := strings.Index(out, "Run ID: ")
	if idx < 0 {
		t.Fatalf("expected a run id in output, got: %s", out)
	}
	runID := strings.TrimSpace(out[idx+len("Run ID: "):])

	out, _, err = execute(t, "--db", db, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, runID) || !strings.Contains(out, "two worlds") {
		t.Errorf("history output missing run, got: %s", out)
	}

	out, _, err = execute(t, "--db", db, "history", runID)
	if err != nil {
		t.Fatalf("history <run-id> failed: %v", err)
	}
	for _, want := range []string{"initial", "announce", "check"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q, got: %s", want, out)
		}
	}
}

func TestGraphID(t *testing.T) {
	tests := map[string]string{
		"two worlds": "two_worlds",
		"muddy":      "muddy",
		"3 kids":     "G3_kids",
		"":           "G",
	}
	for in, want := range tests {
		if got := graphID(in); got != want {
			t.Errorf("graphID(%q) = %q, want %q", in, got, want)
		}
	}
}
