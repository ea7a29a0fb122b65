package e2e

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestMissingRequiredEnvVar checks that a run fails with a descriptive
// error when an active scenario's required environment variable is absent.
func TestMissingRequiredEnvVar(t *testing.T) {
	root := t.TempDir()
	scenarioDir := filepath.Join(root, "scenario", "needs_var")
	outDir := filepath.Join(root, "out")

	writeJSON(t, filepath.Join(root, "scenario", "config.json"), `{
		"senarios": [{
			"value": "needs_var", "path": "`+scenarioDir+`",
			"trigger": {"source": "default"},
			"required_env_vars": ["REQUIRED_VAR"]
		}]
	}`)
	writeJSON(t, filepath.Join(scenarioDir, "app.yml.json"), `{"key": "mode", "multi_type": ["string"], "required": true, "default_value": "on"}`)

	err := run(t, filepath.Join(root, "scenario", "config.json"), outDir, nil)
	if err == nil {
		t.Fatal("expected an error for missing required env var")
	}
	if !strings.Contains(err.Error(), "Missing required environment variables") {
		t.Errorf("expected error to report missing required environment variables, got: %v", err)
	}
	if !strings.Contains(err.Error(), "REQUIRED_VAR") {
		t.Errorf("expected error to name REQUIRED_VAR, got: %v", err)
	}
}
