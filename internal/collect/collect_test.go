package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/confctl/confctl/pkg/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		relPath      string
		expectedPath string
		expectedKind SourceType
	}{
		{"ini schema loses whole suffix", "hosts.ini.json", "hosts", KindJSON},
		{"yml schema keeps yml extension", "app.yml.json", "app.yml", KindJSON},
		{"raw file untouched", "README.md", "README.md", KindRaw},
		{"nested ini schema", "groups/web.ini.json", "groups/web", KindJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, kind := classify(tt.relPath)
			if path != tt.expectedPath || kind != tt.expectedKind {
				t.Errorf("classify(%q) = (%q, %q), want (%q, %q)", tt.relPath, path, kind, tt.expectedPath, tt.expectedKind)
			}
		})
	}
}

func TestCollect_GroupsByDestinationAndSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.yml.json"), "{}")
	writeFile(t, filepath.Join(dir, "static.txt"), "hello")
	writeFile(t, filepath.Join(dir, ".hidden"), "secret")

	active := []config.ScenarioConfig{{Value: "base", Path: dir}}

	sources, err := Collect(active)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if _, ok := sources["app.yml"]; !ok {
		t.Errorf("expected app.yml destination, got keys %v", keysOf(sources))
	}
	if _, ok := sources["static.txt"]; !ok {
		t.Errorf("expected static.txt destination, got keys %v", keysOf(sources))
	}
	if _, ok := sources[".hidden"]; ok {
		t.Errorf("hidden file should have been skipped")
	}
}

func TestLastRawConflict(t *testing.T) {
	tests := []struct {
		name     string
		sources  []Source
		expected int
	}{
		{"no conflict all json", []Source{{Type: KindJSON}, {Type: KindJSON}}, -1},
		{"raw only at the end is fine", []Source{{Type: KindJSON}, {Type: KindRaw}}, -1},
		{"raw followed by json conflicts", []Source{{Type: KindRaw}, {Type: KindJSON}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastRawConflict(tt.sources); got != tt.expected {
				t.Errorf("LastRawConflict() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

func keysOf(m map[string][]Source) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
