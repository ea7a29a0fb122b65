// Package collect walks each active scenario's template root and groups its
// files by the relative output path they produce, so files contributed by
// multiple scenarios to the same destination can be merged in scenario
// application order.
package collect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/confctl/confctl/pkg/config"
)

// SourceType classifies how a collected file should be combined with others
// that map to the same destination.
type SourceType string

// Source kinds produced by the classifier.
const (
	KindJSON SourceType = "json" // *.ini.json / *.yml.json: a schema document to merge and render
	KindRaw  SourceType = "raw"  // anything else: copied and content-substituted verbatim
)

// Source is one file contributed by one scenario toward a destination path.
type Source struct {
	Path     string // absolute path to the source file
	Type     SourceType
	Scenario string // the scenario value that contributed this file
}

// Collect walks every active scenario's Path (in application order) and
// groups discovered files by the relative destination path they produce.
// Hidden files (leading dot) are skipped.
func Collect(active []config.ScenarioConfig) (map[string][]Source, error) {
	fileMap := make(map[string][]Source)

	for _, sc := range active {
		if sc.Path == "" {
			continue
		}
		if _, err := os.Stat(sc.Path); err != nil {
			continue
		}

		err := filepath.Walk(sc.Path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if strings.HasPrefix(info.Name(), ".") {
				return nil
			}

			relPath, err := filepath.Rel(sc.Path, path)
			if err != nil {
				return err
			}

			outRel, kind := classify(relPath)
			fileMap[outRel] = append(fileMap[outRel], Source{
				Path:     path,
				Type:     kind,
				Scenario: sc.Value,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return fileMap, nil
}

func classify(relPath string) (string, SourceType) {
	switch {
	case strings.HasSuffix(relPath, ".ini.json"):
		// Strips the whole ".ini.json" suffix: "hosts.ini.json" -> "hosts".
		return strings.TrimSuffix(relPath, ".ini.json"), KindJSON
	case strings.HasSuffix(relPath, ".yml.json"):
		// Strips only ".json", keeping the extension: "app.yml.json" -> "app.yml".
		return strings.TrimSuffix(relPath, ".json"), KindJSON
	default:
		return relPath, KindRaw
	}
}

// IsINI reports whether the destination should render through the INI
// renderer rather than YAML: either because one of sources is an .ini.json
// schema file, or because dest itself (the resolved output path) ends in
// ".ini".
func IsINI(dest string, sources []Source) bool {
	if strings.HasSuffix(dest, ".ini") {
		return true
	}
	for _, s := range sources {
		if strings.HasSuffix(s.Path, ".ini.json") {
			return true
		}
	}
	return false
}

// LastRawConflict reports whether sources has a raw file that is not the
// last entry while a later entry is a JSON schema — a schema cannot be
// merged on top of an already-rendered raw file. It returns the index of
// the offending raw source, or -1 if there is no conflict.
func LastRawConflict(sources []Source) int {
	firstRaw := -1
	for i, s := range sources {
		if s.Type == KindRaw && firstRaw == -1 {
			firstRaw = i
		}
		if s.Type == KindJSON && firstRaw != -1 {
			return firstRaw
		}
	}
	return -1
}

// IsRawTerminal reports whether the final (highest-priority) source for a
// destination is raw, meaning the destination is produced by copying that
// file rather than rendering a merged schema.
func IsRawTerminal(sources []Source) bool {
	return len(sources) > 0 && sources[len(sources)-1].Type == KindRaw
}
