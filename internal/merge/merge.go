// Package merge implements the deep, keyed, order-preserving merge of
// scenario override nodes onto a base schema tree.
package merge

import "github.com/confctl/confctl/internal/schema"

// Nodes merges override nodes onto base, in override order, returning the
// resulting node slice. base is consumed (nodes are mutated in place) and
// returned for convenience; new keys not present in base are appended in
// the order they first appear among overrides.
func Nodes(base []*schema.Node, overrides []*schema.Node) []*schema.Node {
	index := make(map[string]*schema.Node, len(base))
	for _, n := range base {
		if n.Key != "" {
			index[n.Key] = n
		}
	}

	for _, override := range overrides {
		if override.Key == "" {
			continue
		}
		if existing, ok := index[override.Key]; ok {
			mergeSingle(existing, override)
		} else {
			base = append(base, override)
			index[override.Key] = override
		}
	}

	return base
}

// mergeSingle merges override's attributes onto base in place. Non-null
// scalar attributes on override win unconditionally; a handful of fields
// (required, override_hint, is_override, regex_enable) always replace,
// matching the base schema's definition of "override" semantics.
func mergeSingle(base, override *schema.Node) {
	if len(override.MultiType) > 0 {
		base.MultiType = override.MultiType
	}
	if len(override.ItemMultiType) > 0 {
		base.ItemMultiType = override.ItemMultiType
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	if override.DefaultValue != nil {
		base.DefaultValue = override.DefaultValue
	}
	base.Required = override.Required
	if override.OverrideStrategy != "" {
		base.OverrideStrategy = override.OverrideStrategy
	}
	base.OverrideHint = override.OverrideHint
	base.IsOverride = override.IsOverride
	base.RegexEnable = override.RegexEnable
	if override.Regex != nil {
		base.Regex = override.Regex
	}
	if override.Condition != nil {
		base.Condition = override.Condition
	}

	if override.Children == nil {
		return
	}
	if override.OverrideStrategy == schema.StrategyReplace {
		base.Children = override.Children
		return
	}
	if len(base.Children) > 0 {
		base.Children = Nodes(base.Children, override.Children)
	} else {
		base.Children = override.Children
	}
}
