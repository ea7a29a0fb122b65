// Package yamlgen renders a merged schema tree into YAML text: a
// depth-first walk that keeps the schema's own key order, emits
// description comments/banners, annotates overridden keys, and renders
// non-required nodes as commented-out ("dead") structure.
package yamlgen

import (
	"fmt"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/confctl/confctl/internal/quote"
	"github.com/confctl/confctl/internal/render"
	"github.com/confctl/confctl/internal/schema"
)

const bannerWidth = 42

// Renderer implements render.Generator for YAML destinations.
type Renderer struct{}

// Generate satisfies render.Generator.
func (Renderer) Generate(nodes []*schema.Node, opts render.Options) (string, error) {
	return Generate(nodes, opts)
}

// Generate renders nodes into final YAML file text, trimmed and newline
// terminated.
func Generate(nodes []*schema.Node, opts render.Options) (string, error) {
	lines := generateFromSchema(nodes, 0, opts)
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n", nil
}

func generateFromSchema(nodes []*schema.Node, indent int, opts render.Options) []string {
	var lines []string
	hintMarker := HintStyle(opts.OverrideHintStyle)
	spacing := opts.TopLevelSpacing
	if spacing == 0 && indent == 0 {
		spacing = 2
	}

	first := true
	for _, n := range nodes {
		if !n.Enabled() {
			continue
		}
		if indent == 0 && !first {
			for i := 0; i < spacing; i++ {
				lines = append(lines, "")
			}
		}
		if indent == 0 {
			first = false
		}
		lines = append(lines, processNode(n, indent, hintMarker, opts)...)
	}
	return lines
}

// HintStyle normalizes a configured override-hint style into a renderable
// comment marker: a bare word gets a "# " prefix, an already-commented style
// (leading '#' or ';') passes through untouched, and an empty style falls
// back to the original generator's default marker.
func HintStyle(style string) string {
	if style == "" {
		return "# <=== [Override]"
	}
	trimmed := strings.TrimSpace(style)
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
		return style
	}
	return "# " + style
}

// OverrideHint returns the trailing " <marker>" suffix for n's line when n
// carries an override hint, or "" otherwise.
func OverrideHint(n *schema.Node, marker string) string {
	if !n.OverrideHint {
		return ""
	}
	return " " + marker
}

func processNode(n *schema.Node, indent int, hintMarker string, opts render.Options) []string {
	prefix := strings.Repeat("  ", indent)

	isObject := n.HasType(schema.TypeObject)
	isList := n.HasType(schema.TypeList)

	commentLines := GenerateComments(n.Description, indent)
	descLineCount := len(commentLines)
	lines := append([]string{}, commentLines...)

	lineContent := fmt.Sprintf("%s%s:", prefix, n.Key)
	hint := OverrideHint(n, hintMarker)
	value := n.ResolveValue()

	if (isObject || isList) && value == "" {
		value = nil
	}

	switch {
	case isList:
		lines = append(lines, formatListNode(n, value, indent, opts, lineContent, hint)...)
	case isObject:
		lines = append(lines, formatObjectNode(n, value, indent, opts, lineContent, hint)...)
	default:
		lines = append(lines, formatScalarNode(n, value, lineContent, hint)...)
	}

	return applyCommenting(lines, n.Required, n.Condition.HasConditions(), descLineCount)
}

func formatListNode(n *schema.Node, value any, indent int, opts render.Options, lineContent, hint string) []string {
	var lines []string
	if len(n.Children) > 0 {
		if list, ok := value.([]any); ok && len(list) > 0 {
			val := formatValue(list, indent, schema.TypeList)
			if strings.TrimSpace(val) != "" {
				lines = append(lines, lineContent+hint+val)
			} else {
				lines = append(lines, lineContent+" []"+hint)
			}
		} else {
			lines = append(lines, lineContent+hint)
			childLines := generateFromSchema(n.Children, indent+1, opts)
			lines = append(lines, applyListPrefix(childLines)...)
		}
		return lines
	}

	v := value
	if v == nil {
		v = []any{}
	}
	val := formatValue(v, indent, schema.TypeList)
	if strings.HasPrefix(val, "\n") {
		lines = append(lines, lineContent+hint+val)
	} else {
		lines = append(lines, lineContent+" "+val+hint)
	}
	return lines
}

func applyListPrefix(childLines []string) []string {
	var lines []string
	started := false
	for _, cl := range childLines {
		if strings.TrimSpace(cl) == "" {
			continue
		}
		trimmed := strings.TrimLeft(cl, " ")
		if !started && !strings.HasPrefix(trimmed, "#") {
			leading := len(cl) - len(trimmed)
			lines = append(lines, cl[:leading]+"- "+trimmed)
			started = true
		} else if strings.HasPrefix(trimmed, "#") && !started {
			lines = append(lines, cl)
		} else {
			lines = append(lines, "  "+cl)
		}
	}
	return lines
}

func formatObjectNode(n *schema.Node, value any, indent int, opts render.Options, lineContent, hint string) []string {
	var lines []string
	isEmptyDefault := n.DefaultValue == nil || n.DefaultValue == ""

	if len(n.Children) > 0 && isEmptyDefault {
		lines = append(lines, lineContent+hint)
		lines = append(lines, generateFromSchema(n.Children, indent+1, opts)...)
		return lines
	}

	v := value
	if v == nil {
		v = map[string]any{}
	}
	val := formatValue(v, indent, schema.TypeObject)
	if strings.HasPrefix(val, "\n") {
		lines = append(lines, lineContent+hint+val)
	} else {
		lines = append(lines, lineContent+" "+val+hint)
	}
	return lines
}

func formatScalarNode(n *schema.Node, value any, lineContent, hint string) []string {
	effectiveType := schema.TypeString
	if n.HasType(schema.TypeBool) {
		effectiveType = schema.TypeBool
	} else if n.HasType(schema.TypeNumber) {
		effectiveType = schema.TypeNumber
	}

	v := value
	if v == nil {
		switch effectiveType {
		case schema.TypeBool:
			v = false
		case schema.TypeNumber:
			v = 0
		default:
			v = ""
		}
	}

	valStr := formatValue(v, 0, effectiveType)
	if strings.Contains(valStr, "\n") {
		if strings.HasPrefix(valStr, " |") || strings.HasPrefix(valStr, " >") {
			parts := strings.SplitN(valStr, "\n", 2)
			return []string{lineContent + parts[0] + hint + "\n" + parts[1]}
		}
		return []string{lineContent + hint + valStr}
	}
	return []string{lineContent + " " + valStr + hint}
}

// formatValue is the recursive value formatter: dicts and lists become
// indented blocks, multiline strings become block scalars, everything else
// becomes a smart-quoted scalar.
func formatValue(value any, indentLevel int, valType string) string {
	prefix := strings.Repeat("  ", indentLevel+1)

	if value == nil {
		return ""
	}
	if valType == schema.TypeBool {
		return strconv.FormatBool(toBool(value))
	}
	if valType == schema.TypeNumber {
		return fmt.Sprintf("%v", value)
	}

	if schema.IsDict(value) {
		return formatDictValue(value, indentLevel, prefix)
	}
	switch v := value.(type) {
	case []any:
		return formatListValue(v, indentLevel, prefix)
	case string:
		if strings.Contains(v, "\n") {
			return formatMultilineString(v, prefix)
		}
		return quote.Scalar(v)
	default:
		return quote.Scalar(fmt.Sprintf("%v", v))
	}
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func formatDictValue(value any, indentLevel int, prefix string) string {
	pairs := schema.Pairs(value)
	if len(pairs) == 0 {
		return "{}"
	}
	var lines []string
	for _, kv := range pairs {
		k, v := kv.Key, kv.Value
		formattedKey := quote.Scalar(k)
		if schema.IsDict(v) {
			childVal := formatValue(v, indentLevel+1, "")
			if strings.HasPrefix(childVal, "\n") {
				lines = append(lines, fmt.Sprintf("%s%s:%s", prefix, formattedKey, childVal))
			} else {
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, formattedKey, childVal))
			}
			continue
		}
		switch v.(type) {
		case []any:
			childVal := formatValue(v, indentLevel+1, "")
			if strings.HasPrefix(childVal, "\n") {
				lines = append(lines, fmt.Sprintf("%s%s:%s", prefix, formattedKey, childVal))
			} else {
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, formattedKey, childVal))
			}
		default:
			formattedVal := formatValue(v, -1, schema.TypeString)
			if strings.Contains(formattedVal, "\n") {
				parts := strings.SplitN(formattedVal, "\n", 2)
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, formattedKey, parts[0]))
				for _, sub := range strings.Split(parts[1], "\n") {
					lines = append(lines, prefix+"  "+sub)
				}
			} else {
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, formattedKey, formattedVal))
			}
		}
	}
	return "\n" + strings.Join(lines, "\n")
}

func formatListValue(value []any, indentLevel int, prefix string) string {
	if len(value) == 0 {
		return "[]"
	}
	var lines []string
	for _, item := range value {
		if schema.IsDict(item) {
			itemLines := dumpYAML(schema.ToPlain(item))
			lines = append(lines, prefix+"- "+itemLines[0])
			for _, sub := range itemLines[1:] {
				lines = append(lines, prefix+"  "+sub)
			}
			continue
		}
		switch item.(type) {
		case []any:
			itemLines := dumpYAML(schema.ToPlain(item))
			lines = append(lines, prefix+"- "+itemLines[0])
			for _, sub := range itemLines[1:] {
				lines = append(lines, prefix+"  "+sub)
			}
		default:
			formattedItem := formatValue(item, -1, schema.TypeString)
			if strings.Contains(formattedItem, "\n") {
				parts := strings.SplitN(formattedItem, "\n", 2)
				lines = append(lines, prefix+"- "+parts[0])
				for _, sub := range strings.Split(parts[1], "\n") {
					lines = append(lines, prefix+"  "+sub)
				}
			} else {
				lines = append(lines, prefix+"- "+formattedItem)
			}
		}
	}
	return "\n" + strings.Join(lines, "\n")
}

// dumpYAML hands complex (dict/list) list items off to go.yaml.in/yaml for
// structural serialization, the same escape hatch the original generator
// used for nested payloads without a declarative schema of their own.
func dumpYAML(v any) []string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return []string{fmt.Sprintf("%v", v)}
	}
	text := strings.TrimRight(string(out), "\n")
	return strings.Split(text, "\n")
}

func formatMultilineString(value string, prefix string) string {
	lines := strings.Split(value, "\n")
	// A trailing newline in the source produces a trailing empty split
	// element here; the block scalar's default chomping handles it.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var b strings.Builder
	b.WriteString(" |\n")
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}

// GenerateComments turns a node's description into "# "-prefixed comment
// lines, or delegates to Banner when the description itself is
// '#'-prefixed (the boxed-banner convention).
func GenerateComments(desc string, indent int) []string {
	if desc == "" {
		return nil
	}
	prefix := strings.Repeat("  ", indent)
	if strings.HasPrefix(desc, "#") {
		clean := strings.TrimLeft(strings.TrimPrefix(desc, "#"), " ")
		return Banner(clean, indent)
	}
	var lines []string
	for _, l := range strings.Split(desc, "\n") {
		lines = append(lines, prefix+"# "+l)
	}
	return lines
}

// Banner produces a boxed "# ====...====" comment block around description,
// used when a node's description starts with '#'.
func Banner(description string, indent int) []string {
	prefix := strings.Repeat("  ", indent)
	bar := prefix + "# " + strings.Repeat("=", bannerWidth)
	lines := []string{bar}
	for _, l := range strings.Split(description, "\n") {
		lines = append(lines, prefix+"# "+l)
	}
	lines = append(lines, bar)
	return lines
}

func applyCommenting(lines []string, required bool, hasConditions bool, descLineCount int) []string {
	if required || hasConditions {
		return lines
	}

	var flat []string
	for _, l := range lines {
		flat = append(flat, strings.Split(l, "\n")...)
	}

	var out []string
	for i, l := range flat {
		if i < descLineCount || strings.TrimSpace(l) == "" {
			out = append(out, l)
			continue
		}
		idx := len(l) - len(strings.TrimLeft(l, " "))
		out = append(out, l[:idx]+"# "+l[idx:])
	}
	return out
}
