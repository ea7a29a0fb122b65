// Package schema implements the SchemaNode tree model: the declarative unit
// that both the YAML and INI renderers walk to produce generated files.
package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Type names recognised in a node's multi_type/item_multi_type lists.
const (
	TypeObject = "object"
	TypeList   = "list"
	TypeString = "string"
	TypeBool   = "bool"
	TypeNumber = "number"
)

// Override strategies controlling how an override node's children replace or
// merge into a base node's children.
const (
	StrategyMerge   = "merge"
	StrategyReplace = "replace"
)

// Condition describes the optional activation gate attached to a node. Only
// its "conditions" list is decoded, with untyped entries, since the only
// thing every renderer and the commenting rule care about is whether it is
// non-empty.
type Condition struct {
	Conditions []any `json:"conditions,omitempty"`
}

// HasConditions reports whether c carries at least one condition entry. A
// nil receiver (no condition block at all) has none.
func (c *Condition) HasConditions() bool {
	return c != nil && len(c.Conditions) > 0
}

// Node is a single vertex of a schema tree: a configuration key plus the
// metadata the renderers need to decide how to emit it.
type Node struct {
	Key              string     `json:"key"`
	MultiType        []string   `json:"multi_type,omitempty"`
	ItemMultiType    []string   `json:"item_multi_type,omitempty"`
	Description      string     `json:"description,omitempty"`
	DefaultValue     any        `json:"default_value,omitempty"`
	Required         bool       `json:"required"`
	OverrideStrategy string     `json:"override_strategy,omitempty"`
	OverrideHint     bool       `json:"override_hint,omitempty"`
	IsOverride       bool       `json:"is_override,omitempty"`
	RegexEnable      bool       `json:"regex_enable,omitempty"`
	Regex            *string    `json:"regex,omitempty"`
	Condition        *Condition `json:"condition,omitempty"`
	Children         []*Node    `json:"children,omitempty"`
}

// rawNode mirrors Node's JSON shape but defaults Required to true when the
// field is absent from the document, matching the Python dataclass default.
// default_value is captured as raw bytes rather than decoded straight to
// `any`, so it can be walked through decodeValue and kept in source order.
type rawNode struct {
	Key              string          `json:"key"`
	MultiType        []string        `json:"multi_type"`
	ItemMultiType    []string        `json:"item_multi_type"`
	Description      string          `json:"description"`
	DefaultValue     json.RawMessage `json:"default_value"`
	Required         *bool           `json:"required"`
	OverrideStrategy string          `json:"override_strategy"`
	OverrideHint     bool            `json:"override_hint"`
	IsOverride       bool            `json:"is_override"`
	RegexEnable      bool            `json:"regex_enable"`
	Regex            *string         `json:"regex"`
	Condition        *Condition      `json:"condition"`
	Children         []*rawNode      `json:"children"`
}

// UnmarshalJSON applies the required-defaults-to-true rule from the original
// schema dataclass (field.Required defaults true unless explicitly false).
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding schema node: %w", err)
	}
	return n.fromRaw(&raw)
}

func (n *Node) fromRaw(raw *rawNode) error {
	n.Key = raw.Key
	n.MultiType = raw.MultiType
	n.ItemMultiType = raw.ItemMultiType
	n.Description = raw.Description
	if len(bytes.TrimSpace(raw.DefaultValue)) > 0 {
		v, err := decodeValue(raw.DefaultValue)
		if err != nil {
			return fmt.Errorf("decoding default_value for %q: %w", raw.Key, err)
		}
		n.DefaultValue = v
	}
	n.Required = raw.Required == nil || *raw.Required
	n.OverrideStrategy = raw.OverrideStrategy
	if n.OverrideStrategy == "" {
		n.OverrideStrategy = StrategyMerge
	}
	n.OverrideHint = raw.OverrideHint
	n.IsOverride = raw.IsOverride
	n.RegexEnable = raw.RegexEnable
	n.Regex = raw.Regex
	n.Condition = raw.Condition
	n.Children = make([]*Node, len(raw.Children))
	for i, c := range raw.Children {
		child := &Node{}
		if err := child.fromRaw(c); err != nil {
			return err
		}
		n.Children[i] = child
	}
	return nil
}

// Dict is an order-preserving JSON object: default_value payloads decode
// into Dict rather than map[string]any so the renderers can walk keys in
// their source document order instead of an alphabetized one.
type Dict = orderedmap.OrderedMap[string, any]

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return orderedmap.New[string, any]()
}

// decodeValue recursively decodes a raw JSON value, turning objects into
// *Dict and walking arrays/object values so nested objects keep their order
// too, rather than only the top level.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		rawPairs := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(trimmed, rawPairs); err != nil {
			return nil, err
		}
		out := NewDict()
		for pair := rawPairs.Oldest(); pair != nil; pair = pair.Next() {
			v, err := decodeValue(pair.Value)
			if err != nil {
				return nil, err
			}
			out.Set(pair.Key, v)
		}
		return out, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// KV is one ordered key/value pair, returned by Pairs.
type KV struct {
	Key   string
	Value any
}

// IsDict reports whether v is a dict-like value: either a *Dict decoded from
// JSON, or a plain map[string]any as Go-literal node fixtures build directly.
func IsDict(v any) bool {
	switch v.(type) {
	case *Dict, map[string]any:
		return true
	default:
		return false
	}
}

// Pairs walks a dict-like value in order. A *Dict yields its source document
// order; a plain map[string]any (built directly in Go rather than decoded
// from JSON) yields Go's unspecified map iteration order, since it never had
// a source order to preserve.
func Pairs(v any) []KV {
	switch t := v.(type) {
	case *Dict:
		out := make([]KV, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, KV{pair.Key, pair.Value})
		}
		return out
	case map[string]any:
		out := make([]KV, 0, len(t))
		for k, v := range t {
			out = append(out, KV{k, v})
		}
		return out
	default:
		return nil
	}
}

// Get looks up key in a dict-like value, whichever concrete type it is.
func Get(v any, key string) (any, bool) {
	switch t := v.(type) {
	case *Dict:
		return t.Get(key)
	case map[string]any:
		val, ok := t[key]
		return val, ok
	default:
		return nil, false
	}
}

// ToPlain recursively converts a *Dict (and any nested *Dict/[]any within
// it) into ordinary map[string]any/[]any, discarding the remembered key
// order. Used where a generic library (e.g. a YAML marshaler) needs a plain
// Go value rather than the schema tree's own order-preserving types.
func ToPlain(v any) any {
	switch t := v.(type) {
	case *Dict:
		out := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = ToPlain(pair.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToPlain(item)
		}
		return out
	default:
		return v
	}
}

// HasType reports whether t is present in the node's multi_type list.
func (n *Node) HasType(t string) bool {
	for _, mt := range n.MultiType {
		if mt == t {
			return true
		}
	}
	return false
}

// ResolveValue returns the node's effective value: the default_value if set,
// falling back to the regex pattern string so nodes with no literal default
// still render a representative value.
func (n *Node) ResolveValue() any {
	if n.DefaultValue != nil {
		return n.DefaultValue
	}
	if n.Regex != nil {
		return *n.Regex
	}
	return nil
}

// Enabled reports whether the node should survive into rendered output. A
// node that is not required and carries neither a default nor a regex
// contributes nothing, so it is dropped entirely (not even commented out).
func (n *Node) Enabled() bool {
	if !n.Required && n.DefaultValue == nil && n.Regex == nil {
		return false
	}
	return true
}

// ChildByKey returns the child with the given key, or nil.
func (n *Node) ChildByKey(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}
