// Package inigen renders a merged schema tree into Ansible-style INI
// inventory text: an [all:vars] block, one [<group>] section with host rows
// per group, [<group>:children] aggregation sections, and [<group>:vars]
// sections, each independently gated on the node being required or
// carrying a condition.
package inigen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/confctl/confctl/internal/quote"
	"github.com/confctl/confctl/internal/render"
	"github.com/confctl/confctl/internal/render/yamlgen"
	"github.com/confctl/confctl/internal/schema"
)

// Renderer implements render.Generator for INI inventory destinations.
type Renderer struct{}

// Generate satisfies render.Generator.
func (Renderer) Generate(nodes []*schema.Node, opts render.Options) (string, error) {
	return Generate(nodes, opts)
}

// Generate renders nodes into final INI inventory text.
func Generate(nodes []*schema.Node, opts render.Options) (string, error) {
	hintMarker := yamlgen.HintStyle(opts.OverrideHintStyle)
	var sections []string

	if n := findRoot(nodes, "global_vars"); n != nil {
		if s := generateGlobalVars(n); s != "" {
			sections = append(sections, s)
		}
	}
	if n := findRoot(nodes, "groups"); n != nil {
		if s := generateGroups(n, hintMarker); s != "" {
			sections = append(sections, s)
		}
	}
	if n := findRoot(nodes, "aggregations"); n != nil {
		if s := generateAggregations(n); s != "" {
			sections = append(sections, s)
		}
	}
	groupVarsNode := findRoot(nodes, "group_vars")
	groupsNode := findRoot(nodes, "groups")
	if groupVarsNode != nil {
		if s := generateGroupVars(groupVarsNode, groupsNode, hintMarker); s != "" {
			sections = append(sections, s)
		}
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n")) + "\n", nil
}

func findRoot(nodes []*schema.Node, key string) *schema.Node {
	for _, n := range nodes {
		if n.Key == key {
			return n
		}
	}
	return nil
}

func sectionEligible(n *schema.Node) bool {
	return n.Enabled() && (n.Required || n.Condition.HasConditions())
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}

func descOf(n *schema.Node) string {
	if n == nil {
		return ""
	}
	return n.Description
}

// combinedKeys orders a dict-like section's keys the way the original
// generator does: schema children first, in declared order, then any
// additional keys present in val that have no corresponding schema child
// (a group or aggregation supplied purely through a literal default value).
func combinedKeys(children []*schema.Node, val any) []string {
	seen := make(map[string]bool, len(children))
	keys := make([]string, 0, len(children))
	for _, c := range children {
		keys = append(keys, c.Key)
		seen[c.Key] = true
	}
	for _, kv := range schema.Pairs(val) {
		if !seen[kv.Key] {
			keys = append(keys, kv.Key)
			seen[kv.Key] = true
		}
	}
	return keys
}

func generateGlobalVars(n *schema.Node) string {
	if !sectionEligible(n) {
		return ""
	}
	pairs := schema.Pairs(n.ResolveValue())
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	writeLines(&b, yamlgen.GenerateComments(n.Description, 0))
	b.WriteString("[all:vars]\n")
	for _, kv := range pairs {
		b.WriteString(fmt.Sprintf("%s=%s\n", kv.Key, quote.Scalar(stringify(kv.Value))))
	}
	return applySectionCommenting(b.String(), n)
}

func generateGroups(groupsNode *schema.Node, hintMarker string) string {
	if !sectionEligible(groupsNode) {
		return ""
	}

	groupsVal := groupsNode.ResolveValue()
	keys := combinedKeys(groupsNode.Children, groupsVal)

	var sections []string
	for _, gk := range keys {
		g := groupsNode.ChildByKey(gk)
		if g != nil && !g.Enabled() {
			continue
		}
		sections = append(sections, generateOneGroup(gk, g, groupHosts(g, groupsVal, gk), hintMarker))
	}
	return strings.Join(filterEmpty(sections), "\n\n")
}

// groupHosts resolves one group's host list: the group's own schema-resolved
// value when it has one, falling back to a literal entry carried directly in
// the groups root's own default value (a schema-less dynamic group).
func groupHosts(g *schema.Node, groupsVal any, gk string) []any {
	if g != nil {
		if list, ok := g.ResolveValue().([]any); ok {
			return list
		}
	}
	if v, ok := schema.Get(groupsVal, gk); ok {
		if list, ok := v.([]any); ok {
			return list
		}
	}
	return nil
}

func generateOneGroup(gk string, g *schema.Node, hosts []any, hintMarker string) string {
	var b strings.Builder
	writeLines(&b, yamlgen.GenerateComments(descOf(g), 0))

	hint := ""
	if g != nil {
		hint = yamlgen.OverrideHint(g, hintMarker)
	}
	b.WriteString(fmt.Sprintf("[%s]%s\n", gk, hint))

	if len(hosts) == 0 && g != nil && len(g.Children) > 0 {
		if row := renderHostRow(syntheticHost(g.Children)); row != "" {
			b.WriteString(row)
			b.WriteString("\n")
		}
	} else {
		for _, h := range hosts {
			row := renderHostRow(h)
			if row == "" {
				continue
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	return applySectionCommenting(b.String(), g)
}

// syntheticHost builds one example host row from a group's item schema when
// no literal host list is given: each child contributes its regex (quoted)
// or its default value, in the children's declared order.
func syntheticHost(children []*schema.Node) *schema.Dict {
	row := schema.NewDict()
	for _, c := range children {
		if c.Regex != nil {
			row.Set(c.Key, quote.Scalar(*c.Regex))
			continue
		}
		row.Set(c.Key, c.DefaultValue)
	}
	return row
}

// renderHostRow formats one host entry. A dict host's "hostname" key (or,
// absent that, its first key) becomes the row's unquoted primary value; the
// rest are appended as key=value pairs in the dict's own order. A host with
// no usable primary value contributes nothing.
func renderHostRow(h any) string {
	if !schema.IsDict(h) {
		return stringify(h)
	}

	pairs := schema.Pairs(h)
	primaryKey, primary := "", ""
	if v, ok := schema.Get(h, "hostname"); ok {
		primaryKey, primary = "hostname", stringify(v)
	} else if len(pairs) > 0 {
		primaryKey, primary = pairs[0].Key, stringify(pairs[0].Value)
	}
	if primary == "" {
		return ""
	}

	parts := []string{primary}
	for _, kv := range pairs {
		if kv.Key == primaryKey {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", kv.Key, quote.Scalar(stringify(kv.Value))))
	}
	return strings.Join(parts, " ")
}

func generateAggregations(aggNode *schema.Node) string {
	if !sectionEligible(aggNode) {
		return ""
	}

	aggVal := aggNode.ResolveValue()
	keys := combinedKeys(aggNode.Children, aggVal)

	var sections []string
	for _, ak := range keys {
		c := aggNode.ChildByKey(ak)
		if c != nil && !c.Enabled() {
			continue
		}

		children := resolveChildrenGroups(c, aggVal, ak)
		if len(children) == 0 {
			continue
		}

		var b strings.Builder
		writeLines(&b, yamlgen.GenerateComments(descOf(c), 0))
		b.WriteString(fmt.Sprintf("[%s:children]\n", ak))
		for _, child := range children {
			b.WriteString(child)
			b.WriteString("\n")
		}
		sections = append(sections, applySectionCommenting(b.String(), c))
	}
	return strings.Join(filterEmpty(sections), "\n\n")
}

// resolveChildrenGroups resolves one aggregation's member list: the child
// schema's own resolved value, falling back to a literal entry in the
// aggregations root's own default value, falling back to the child schema's
// own declared children keys when neither carries a literal list.
func resolveChildrenGroups(c *schema.Node, aggVal any, ak string) []string {
	var list []any
	if c != nil {
		if l, ok := c.ResolveValue().([]any); ok && len(l) > 0 {
			list = l
		}
	}
	if list == nil {
		if v, ok := schema.Get(aggVal, ak); ok {
			if l, ok := v.([]any); ok {
				list = l
			}
		}
	}
	if list == nil {
		if c == nil || len(c.Children) == 0 {
			return nil
		}
		out := make([]string, 0, len(c.Children))
		for _, ch := range c.Children {
			out = append(out, ch.Key)
		}
		return out
	}

	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, stringify(v))
	}
	return out
}

func generateGroupVars(groupVarsNode, groupsNode *schema.Node, hintMarker string) string {
	if !sectionEligible(groupVarsNode) {
		return ""
	}

	parentVal := groupVarsNode.ResolveValue()
	keys := combinedKeys(groupVarsNode.Children, parentVal)

	var sections []string
	for _, gk := range keys {
		gvSchema := groupVarsNode.ChildByKey(gk)
		if gvSchema != nil && !gvSchema.Enabled() {
			continue
		}

		merged := mergeGroupVars(gvSchema, groupsNode, gk, parentVal)
		if merged.len() == 0 {
			continue
		}

		var b strings.Builder
		writeLines(&b, yamlgen.GenerateComments(descOf(gvSchema), 0))

		hint := ""
		if gvSchema != nil {
			hint = yamlgen.OverrideHint(gvSchema, hintMarker)
		}
		b.WriteString(fmt.Sprintf("[%s:vars]%s\n", gk, hint))

		for _, k := range merged.keys {
			v := merged.vals[k]
			if bv, ok := v.(bool); ok {
				v = strconv.FormatBool(bv)
			}
			b.WriteString(fmt.Sprintf("%s=%s\n", k, quote.Smart(stringify(v))))
		}

		sections = append(sections, applySectionCommenting(b.String(), gvSchema))
	}
	return strings.Join(filterEmpty(sections), "\n\n")
}

// orderedAcc accumulates key/value pairs the way a Python dict's update()
// does: a key keeps the position of its first insertion, but later set()
// calls for the same key still win on value.
type orderedAcc struct {
	keys []string
	vals map[string]any
}

func newOrderedAcc() *orderedAcc {
	return &orderedAcc{vals: map[string]any{}}
}

func (a *orderedAcc) set(k string, v any) {
	if _, ok := a.vals[k]; !ok {
		a.keys = append(a.keys, k)
	}
	a.vals[k] = v
}

func (a *orderedAcc) len() int {
	return len(a.keys)
}

// mergeGroupVars combines a group's vars from three sources, later entries
// winning on value (but not on key position): each child schema node's own
// resolved value, the group_vars child node's own dict default, then any
// literal override carried directly in the parent group_vars default.
func mergeGroupVars(gvSchema, groupsNode *schema.Node, groupKey string, parentVal any) *orderedAcc {
	acc := newOrderedAcc()

	if groupsNode != nil {
		if g := groupsNode.ChildByKey(groupKey); g != nil {
			for _, c := range g.Children {
				if c.Key == "hostname" {
					continue
				}
				if v := c.ResolveValue(); v != nil {
					acc.set(c.Key, v)
				}
			}
		}
	}

	if gvSchema != nil {
		for _, kv := range schema.Pairs(gvSchema.ResolveValue()) {
			acc.set(kv.Key, kv.Value)
		}
	}

	if v, ok := schema.Get(parentVal, groupKey); ok {
		for _, kv := range schema.Pairs(v) {
			acc.set(kv.Key, kv.Value)
		}
	}

	return acc
}

// applySectionCommenting comments out text when n isn't required and
// carries no condition. A nil n (a dynamic section with no backing schema
// node) is always treated as required, matching the original generator's
// "no schema to judge by" default.
func applySectionCommenting(text string, n *schema.Node) string {
	required, hasCond := true, false
	if n != nil {
		required, hasCond = n.Required, n.Condition.HasConditions()
	}
	if required || hasCond {
		return text
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines[i] = "# " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func filterEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
