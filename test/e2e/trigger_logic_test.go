package e2e

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestAndLogicTrigger checks that an "and" env trigger requires every
// condition to match.
func TestAndLogicTrigger(t *testing.T) {
	root := t.TempDir()
	scenarioDir := filepath.Join(root, "scenario", "and_logic")
	writeJSON(t, filepath.Join(root, "scenario", "config.json"), `{
		"senarios": [{
			"value": "and_logic", "path": "`+scenarioDir+`",
			"trigger": {"source": "env", "logic": "and", "conditions": [
				{"key": "COND_A", "regex": "foo"},
				{"key": "COND_B", "regex": "bar"}
			]}
		}]
	}`)
	writeJSON(t, filepath.Join(scenarioDir, "app.yml.json"), `{"key": "active_marker", "multi_type": ["string"], "required": true, "default_value": "yes"}`)

	t.Run("partial match does not trigger", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		if err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, map[string]string{"COND_A": "foo", "COND_B": "miss"}); err != nil {
			t.Fatalf("generate.Run: %v", err)
		}
		if _, err := readOutputErr(outDir, "app.yml"); err == nil {
			t.Error("expected app.yml not to be generated for a partial match")
		}
	})

	t.Run("full match triggers", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		if err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, map[string]string{"COND_A": "foo", "COND_B": "bar"}); err != nil {
			t.Fatalf("generate.Run: %v", err)
		}
		out := readOutput(t, outDir, "app.yml")
		if !strings.Contains(out, "yes") {
			t.Errorf("expected active_marker to be rendered, got:\n%s", out)
		}
	})
}

// TestOrLogicTrigger checks that an "or" env trigger activates on a single
// matching condition.
func TestOrLogicTrigger(t *testing.T) {
	root := t.TempDir()
	scenarioDir := filepath.Join(root, "scenario", "or_logic")
	writeJSON(t, filepath.Join(root, "scenario", "config.json"), `{
		"senarios": [{
			"value": "or_logic", "path": "`+scenarioDir+`",
			"trigger": {"source": "env", "logic": "or", "conditions": [
				{"key": "COND_A", "regex": "foo"},
				{"key": "COND_B", "regex": "bar"}
			]}
		}]
	}`)
	writeJSON(t, filepath.Join(scenarioDir, "app.yml.json"), `{"key": "active_marker", "multi_type": ["string"], "required": true, "default_value": "yes"}`)

	outDir := filepath.Join(t.TempDir(), "out")
	if err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, map[string]string{"COND_A": "foo", "COND_B": "miss"}); err != nil {
		t.Fatalf("generate.Run: %v", err)
	}
	out := readOutput(t, outDir, "app.yml")
	if !strings.Contains(out, "yes") {
		t.Errorf("expected single matching condition to trigger the scenario, got:\n%s", out)
	}
}
