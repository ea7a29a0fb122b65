package e2e

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestPriorityMergeOverride checks that with active order
// base(9999) -> p5(5) -> p1(1), a key three scenarios all define ends up
// carrying the smallest-priority scenario's value: smaller priority numbers
// apply last and win.
func TestPriorityMergeOverride(t *testing.T) {
	root := t.TempDir()
	baseDir := filepath.Join(root, "scenario", "base")
	p5Dir := filepath.Join(root, "scenario", "p5")
	p1Dir := filepath.Join(root, "scenario", "p1")
	outDir := filepath.Join(root, "out")

	writeJSON(t, filepath.Join(root, "scenario", "config.json"), `{
		"senarios": [
			{"value": "base", "path": "`+baseDir+`", "trigger": {"source": "default"}},
			{"value": "p5", "path": "`+p5Dir+`", "trigger": {"source": "env", "conditions": [{"key": "TEST_TRIGGER", "regex": "active"}]}, "priority": 5},
			{"value": "p1", "path": "`+p1Dir+`", "trigger": {"source": "env", "conditions": [{"key": "TEST_TRIGGER", "regex": "active"}]}, "priority": 1}
		]
	}`)
	writeJSON(t, filepath.Join(baseDir, "app.yml.json"), `{"key": "shared_key", "multi_type": ["string"], "required": true, "default_value": "from_base", "override_strategy": "merge"}`)
	writeJSON(t, filepath.Join(p5Dir, "app.yml.json"), `{"key": "shared_key", "multi_type": ["string"], "required": true, "default_value": "from_p5", "override_strategy": "merge"}`)
	writeJSON(t, filepath.Join(p1Dir, "app.yml.json"), `{"key": "shared_key", "multi_type": ["string"], "required": true, "default_value": "from_p1", "override_strategy": "merge"}`)

	if err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, map[string]string{"TEST_TRIGGER": "active"}); err != nil {
		t.Fatalf("generate.Run: %v", err)
	}

	out := readOutput(t, outDir, "app.yml")
	if !strings.Contains(out, "from_p1") {
		t.Errorf("expected merged output to carry from_p1, got:\n%s", out)
	}
	if strings.Contains(out, "from_p5") || strings.Contains(out, "from_base") {
		t.Errorf("expected lower-priority values to be fully overridden, got:\n%s", out)
	}
}
