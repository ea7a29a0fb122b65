package schema

import (
	"fmt"
	"strings"
)

var allowedINIRoots = []string{"aggregations", "groups", "global_vars", "group_vars"}

// ValidateFile runs the structural validator, plus the .ini.json-specific
// root/shape rules when path ends in that suffix, over every top-level node
// parsed from path. Returned strings are already prefixed with the
// offending file path, ready to print as-is.
func ValidateFile(nodes []*Node, path string) []string {
	isINI := strings.HasSuffix(path, ".ini.json")

	var errs []string
	for _, n := range nodes {
		key := n.Key
		if key == "" {
			key = "UNKNOWN"
		}
		errs = append(errs, validateNode(n, path, key, isINI)...)
	}
	return errs
}

func validateNode(n *Node, path, nodeKey string, isINI bool) []string {
	var errs []string

	if n.Key == "" {
		errs = append(errs, fmt.Sprintf("[%s] Error: Node '%s' missing 'key' attribute.", path, nodeKey))
	}
	if len(n.MultiType) == 0 {
		key := n.Key
		if key == "" {
			key = nodeKey
		}
		errs = append(errs, fmt.Sprintf("[%s] Error: Node '%s' missing 'multi_type' attribute.", path, key))
	}

	isObject := n.HasType(TypeObject)
	isList := n.HasType(TypeList)

	if isObject && isList {
		errs = append(errs, fmt.Sprintf("[%s] Error: Node '%s' 'multi_type' cannot contain both 'object' and 'list'.", path, n.Key))
	}
	if isList && len(n.ItemMultiType) == 0 {
		errs = append(errs, fmt.Sprintf("[%s] Error: Node '%s' 'multi_type' contains 'list' but 'item_multi_type' is empty.", path, n.Key))
	}
	if isObject && len(n.ItemMultiType) > 0 {
		errs = append(errs, fmt.Sprintf("[%s] Error: Node '%s' 'multi_type' contains 'object' but 'item_multi_type' is not empty.", path, n.Key))
	}

	if isINI {
		errs = append(errs, validateINIShape(n, path, nodeKey)...)
	}

	for _, c := range n.Children {
		errs = append(errs, validateNode(c, path, nodeKey+"."+c.Key, isINI)...)
	}

	return errs
}

func validateINIShape(n *Node, path, nodeKey string) []string {
	var errs []string
	parts := strings.Split(nodeKey, ".")

	if len(parts) == 1 {
		if !containsStr(allowedINIRoots, n.Key) {
			errs = append(errs, fmt.Sprintf("%s [%s]: invalid INI root key '%s'. Must be one of %v.", path, nodeKey, n.Key, allowedINIRoots))
		}
		if containsStr([]string{"aggregations", "groups", "group_vars", "global_vars"}, n.Key) && !n.HasType(TypeObject) {
			errs = append(errs, fmt.Sprintf("%s [%s]: INI root node '%s' must have 'multi_type' containing 'object'.", path, nodeKey, n.Key))
		}
	}

	if len(parts) == 2 {
		switch parts[0] {
		case "groups", "aggregations":
			if !n.HasType(TypeList) {
				errs = append(errs, fmt.Sprintf("%s [%s]: node under INI '%s' must have 'multi_type' containing 'list'.", path, nodeKey, parts[0]))
			}
			if !hasType(n.ItemMultiType, TypeObject) {
				errs = append(errs, fmt.Sprintf("%s [%s]: node under INI '%s' must have 'item_multi_type' containing 'object'.", path, nodeKey, parts[0]))
			}
		case "group_vars":
			if !n.HasType(TypeObject) {
				errs = append(errs, fmt.Sprintf("%s [%s]: node under INI 'group_vars' must have 'multi_type' containing 'object'.", path, nodeKey))
			}
		}

		if parts[0] == "groups" && len(n.Children) > 0 {
			if n.ChildByKey("hostname") == nil {
				errs = append(errs, fmt.Sprintf("%s [%s]: node under INI 'groups' must contain a 'hostname' child key.", path, nodeKey))
			}
		}
	}

	if len(parts) == 3 && parts[0] == "aggregations" {
		if !n.HasType(TypeObject) {
			errs = append(errs, fmt.Sprintf("%s [%s]: child node under INI 'aggregations' list must have 'multi_type' containing 'object'.", path, nodeKey))
		}
	}

	return errs
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func hasType(types []string, t string) bool {
	return containsStr(types, t)
}
