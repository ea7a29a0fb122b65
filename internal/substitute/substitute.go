// Package substitute implements the two variable-substitution dialects used
// by confctl: path-form {VAR} for output paths and content-form ${VAR} for
// file content and schema default values.
package substitute

import (
	"regexp"
	"strings"

	"github.com/confctl/confctl/internal/schema"
	"github.com/confctl/confctl/pkg/log"
)

var (
	unresolvedPath    = regexp.MustCompile(`\{[A-Z0-9_]+\}`)
	unresolvedContent = regexp.MustCompile(`\$\{[A-Z0-9_]+\}`)
)

// Path replaces every literal "{KEY}" occurrence in template with env[KEY],
// and warns (without failing) about any placeholder left unresolved.
func Path(template string, env map[string]string) string {
	for key, value := range env {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, value)
	}
	if m := unresolvedPath.FindString(template); m != "" {
		log.Warnf("unresolved placeholders in path: %s", template)
	}
	return template
}

// Content replaces every literal "${KEY}" occurrence in content with
// env[KEY], and warns about any placeholder left unresolved.
func Content(content string, env map[string]string) string {
	for key, value := range env {
		placeholder := "${" + key + "}"
		content = strings.ReplaceAll(content, placeholder, value)
	}
	if m := unresolvedContent.FindString(content); m != "" {
		log.Warnf("unresolved variable placeholders in content %s", m)
	}
	return content
}

// DefaultValues recursively resolves ${VAR} content-form placeholders inside
// every node's default_value, descending through children as well as nested
// map/slice structures embedded directly in a default_value.
func DefaultValues(nodes []*schema.Node, env map[string]string) {
	for _, n := range nodes {
		switch v := n.DefaultValue.(type) {
		case string:
			if v != "" {
				n.DefaultValue = Content(v, env)
			}
		case *schema.Dict:
			n.DefaultValue = resolveDict(v, env)
		case map[string]any:
			n.DefaultValue = resolveMap(v, env)
		case []any:
			n.DefaultValue = resolveSlice(v, env)
		}
		if len(n.Children) > 0 {
			DefaultValues(n.Children, env)
		}
	}
}

// resolveDict substitutes through a JSON-decoded dict default, preserving
// its source key order.
func resolveDict(d *schema.Dict, env map[string]string) *schema.Dict {
	out := schema.NewDict()
	for pair := d.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, resolveAny(pair.Value, env))
	}
	return out
}

// resolveMap substitutes through a Go-literal dict default (a node built
// directly in code rather than decoded from JSON).
func resolveMap(m map[string]any, env map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = resolveAny(v, env)
	}
	return out
}

func resolveSlice(l []any, env map[string]string) []any {
	out := make([]any, len(l))
	for i, v := range l {
		out[i] = resolveAny(v, env)
	}
	return out
}

func resolveAny(v any, env map[string]string) any {
	switch t := v.(type) {
	case string:
		return Content(t, env)
	case *schema.Dict:
		return resolveDict(t, env)
	case map[string]any:
		return resolveMap(t, env)
	case []any:
		return resolveSlice(t, env)
	default:
		return v
	}
}
