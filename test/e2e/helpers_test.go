// Package e2e exercises confctl's full generation pipeline end to end:
// a scenario config and a set of schema fixtures on disk, run through
// generate.Run, checked against the rendered output files.
package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/confctl/confctl/internal/generate"
)

// writeJSON writes a schema or config fixture file, creating parent
// directories as needed.
func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

// readOutput reads a generated file from the run's output directory,
// failing the test if it was not produced.
func readOutput(t *testing.T, outDir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, name))
	if err != nil {
		t.Fatalf("reading generated %s: %v", name, err)
	}
	return string(data)
}

// readOutputErr reads a generated file without failing the test, for
// assertions that the file should not exist.
func readOutputErr(outDir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(outDir, name))
	return string(data), err
}

// run executes a generation pass against configPath/outputDir with env set
// in the process environment for the duration of the test.
func run(t *testing.T, configPath, outDir string, env map[string]string) error {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	return generate.Run(generate.Options{ConfigPath: configPath, OutputDir: outDir})
}
