// Package quote implements the smart scalar quoting heuristics shared by the
// YAML and INI renderers: quote only when a bare value would otherwise be
// ambiguous or break the target syntax.
package quote

import (
	"regexp"
	"strings"
)

var (
	boolLike   = regexp.MustCompile(`(?i)^(true|false|yes|no|on|off)$`)
	numberLike = regexp.MustCompile(`^[\d.]+$`)
	envSub     = regexp.MustCompile(`\$\{?\w+\}?`)
)

var restrictedStart = []byte{'"', '\'', '*', '&', '!', '?', '-', '<', '>', '%', '@', '`'}

// Smart applies the looser quoting rule used for group_vars INI values:
// quote on empty/blank, or a small set of structurally dangerous
// characters/leading markers. Boolean-like words are returned bare.
func Smart(v string) string {
	if v == "" || strings.TrimSpace(v) == "" {
		return `"` + v + `"`
	}
	if boolLike.MatchString(v) {
		return v
	}

	needsQuotes := false
	if startsWithAny(v, restrictedStart) || strings.HasPrefix(v, " ") || strings.HasSuffix(v, " ") {
		needsQuotes = true
	} else if strings.ContainsAny(v, "#:{}[],") {
		needsQuotes = true
	}

	if needsQuotes && !(strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)) {
		return `"` + v + `"`
	}
	return v
}

// Scalar applies the stricter quoting rule used for the primary YAML/INI
// scalar emission path: in addition to Smart's triggers, it also quotes
// pure numeric-looking strings, Ansible/YAML special characters, and any
// string containing an unresolved ${VAR}/$VAR-shaped substitution, and
// backslash-escapes embedded double quotes.
func Scalar(v string) string {
	if (strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)) ||
		(strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'")) {
		return v
	}

	needsQuotes := false
	switch {
	case v == "":
		needsQuotes = true
	case boolLike.MatchString(v):
		needsQuotes = true
	case numberLike.MatchString(v):
		needsQuotes = true
	case startsWithAny(v, restrictedStart):
		needsQuotes = true
	case strings.ContainsAny(v, ":#[]{}/| !,") || envSub.MatchString(v):
		needsQuotes = true
	}

	if needsQuotes {
		escaped := strings.ReplaceAll(v, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return v
}

func startsWithAny(v string, prefixes []byte) bool {
	if v == "" {
		return false
	}
	for _, p := range prefixes {
		if v[0] == p {
			return true
		}
	}
	return false
}
