// Package render defines the shared contract implemented by the YAML and
// INI renderers: turn a merged schema tree plus orchestrator options into
// final file text.
package render

import "github.com/confctl/confctl/internal/schema"

// Options carries the renderer-visible subset of the orchestrator config:
// the override-hint comment style and top-level blank-line spacing.
type Options struct {
	OverrideHintStyle string
	TopLevelSpacing   int
}

// Generator renders a merged schema tree into final file text.
type Generator interface {
	Generate(nodes []*schema.Node, opts Options) (string, error)
}
