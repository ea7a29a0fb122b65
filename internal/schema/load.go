package schema

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// LoadNodes parses a JSON schema file into its top-level node list. A
// document may be a single object or an array of objects; either form
// normalizes to a slice.
func LoadNodes(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var nodes []*Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
		}
		return nodes, nil
	}

	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	return []*Node{&node}, nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}
