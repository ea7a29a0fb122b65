package e2e

import (
	"os"
	"path/filepath"
	"testing"
)

// TestRawOverSchemaConflict checks that when a lower-precedence scenario
// supplies a raw file and a higher-precedence scenario supplies a JSON
// schema mapping to the same destination, that destination is skipped with
// an error rather than failing the whole run.
func TestRawOverSchemaConflict(t *testing.T) {
	root := t.TempDir()
	baseDir := filepath.Join(root, "scenario", "base")
	prodDir := filepath.Join(root, "scenario", "prod")
	outDir := filepath.Join(root, "out")

	writeJSON(t, filepath.Join(root, "scenario", "config.json"), `{
		"senarios": [
			{"value": "base", "path": "`+baseDir+`", "trigger": {"source": "default"}},
			{"value": "prod", "path": "`+prodDir+`", "trigger": {"source": "user"}}
		]
	}`)
	writeJSON(t, filepath.Join(baseDir, "host.yml"), "static: 1\n")
	writeJSON(t, filepath.Join(prodDir, "host.yml.json"), `{"key": "static", "multi_type": ["number"], "required": true, "default_value": 2}`)

	if err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, map[string]string{"SCENARIO_TYPE": "prod"}); err != nil {
		t.Fatalf("generate.Run should not fail the whole run on a single conflicting destination: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "host.yml")); err == nil {
		t.Error("expected the conflicting destination to be skipped, not generated")
	}
}
