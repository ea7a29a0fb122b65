// Package config provides the orchestrator configuration model for confctl:
// the scenario list, their triggers, and the rendering options that flow
// through to the YAML/INI renderers.
package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Trigger sources: which signal activates a scenario.
const (
	SourceUser    = "user"
	SourceDefault = "default"
	SourceEnv     = "env"
)

// Trigger logic combinators for multi-condition env triggers.
const (
	LogicAnd = "and"
	LogicOr  = "or"
)

// DefaultScenarioPriority is forced onto every active "default"-sourced
// scenario regardless of its configured priority, so the base layer always
// applies before any other active scenario.
const DefaultScenarioPriority = 9999

// EnvVarDef names a required environment variable, with an optional
// human-readable description.
type EnvVarDef struct {
	Key         string `json:"key" jsonschema:"description=Environment variable name,required"`
	Description string `json:"description,omitempty" jsonschema:"description=What this variable controls"`
}

// UnmarshalJSON accepts either a bare string ("FOO") or an object
// ({"key": "FOO", "description": "..."}) for each required_env_vars entry.
func (e *EnvVarDef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		e.Key = asString
		return nil
	}
	type alias EnvVarDef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decoding env var definition: %w", err)
	}
	*e = EnvVarDef(a)
	return nil
}

// TriggerCondition is one regex predicate evaluated against an environment
// variable's value, used by "env"-sourced scenario triggers.
type TriggerCondition struct {
	Key   string `json:"key" jsonschema:"description=Environment variable to test,required"`
	Regex string `json:"regex" jsonschema:"description=Regular expression the variable's value must match,required"`
}

// ScenarioTrigger decides whether a scenario is active for a given run.
type ScenarioTrigger struct {
	Source     string             `json:"source" jsonschema:"description=Activation source,enum=user,enum=default,enum=env,default=default"`
	Logic      string             `json:"logic,omitempty" jsonschema:"description=How multiple env conditions combine,enum=and,enum=or,default=and"`
	Conditions []TriggerCondition `json:"conditions,omitempty" jsonschema:"description=Conditions evaluated for an 'env' trigger"`
}

// ScenarioConfig is one entry of the orchestrator's scenario list: where its
// template files live, when it activates, and what it requires.
type ScenarioConfig struct {
	Value           string          `json:"value" jsonschema:"description=Scenario identifier (matched against the scenario env key for 'user' triggers),required"`
	Path            string          `json:"path" jsonschema:"description=Root directory containing this scenario's template files,required"`
	Trigger         ScenarioTrigger `json:"trigger" jsonschema:"description=Activation trigger,required"`
	RequiredEnvVars []EnvVarDef     `json:"required_env_vars,omitempty" jsonschema:"description=Environment variables that must be set when this scenario is active"`
	Priority        int             `json:"priority,omitempty" jsonschema:"description=Application order; higher applies first (overwritten before lower priorities),default=999"`

	// Raw carries the full decoded document for this scenario, preserving
	// forward-compatible per-scenario keys the typed struct does not model.
	Raw map[string]any `json:"-"`
}

// AppConfig is the orchestrator configuration: the top-level document at
// template/scenario/config.json.
type AppConfig struct {
	OverrideHintStyle string           `json:"override_hint_style,omitempty" jsonschema:"description=Comment appended to overridden keys,default=# <=== [Override]"`
	ScenarioEnvKey    string           `json:"senario_env_key,omitempty" jsonschema:"description=Environment variable name that selects the active 'user' scenario,default=SCENARIO_TYPE"`
	TopLevelSpacing   int              `json:"top_level_spacing,omitempty" jsonschema:"description=Blank lines inserted between top-level YAML keys,default=2"`
	DefaultEnvVars    []EnvVarDef      `json:"default_env_vars,omitempty" jsonschema:"description=Environment variables required regardless of which scenarios are active"`
	Scenarios         []ScenarioConfig `json:"senarios,omitempty" jsonschema:"description=Ordered list of scenario definitions"`

	// Raw is the full decoded orchestrator document, kept alongside the
	// typed fields for forward-compatible keys. The renderers do not read
	// it: override_hint_style and top_level_spacing reach them through the
	// typed fields above.
	Raw map[string]any `json:"-"`
}

// DefaultConfig returns an AppConfig with the same defaults the orchestrator
// document's optional fields fall back to when absent.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		OverrideHintStyle: "# <=== [Override]",
		ScenarioEnvKey:    "SCENARIO_TYPE",
		TopLevelSpacing:   2,
	}
}

// Load reads and parses the orchestrator configuration at path.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading orchestrator config: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing orchestrator config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing orchestrator config: %w", err)
	}
	cfg.Raw = raw

	var rawScenarios []map[string]any
	if v, ok := raw["senarios"]; ok {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					rawScenarios = append(rawScenarios, m)
				}
			}
		}
	}
	for i := range cfg.Scenarios {
		if i < len(rawScenarios) {
			cfg.Scenarios[i].Raw = rawScenarios[i]
		}
		if cfg.Scenarios[i].Priority == 0 {
			cfg.Scenarios[i].Priority = 999
		}
		if cfg.Scenarios[i].Trigger.Logic == "" {
			cfg.Scenarios[i].Trigger.Logic = LogicAnd
		}
		if cfg.Scenarios[i].Trigger.Source == "" {
			cfg.Scenarios[i].Trigger.Source = SourceDefault
		}
	}

	return cfg, nil
}

// Validate checks that trigger rules are logically sound: "user"/"default"
// triggers must not carry conditions, and "env" triggers must carry at
// least one.
func (c *AppConfig) Validate() error {
	for _, sc := range c.Scenarios {
		switch sc.Trigger.Source {
		case SourceUser, SourceDefault:
			if len(sc.Trigger.Conditions) > 0 {
				return fmt.Errorf("scenario %q: source %q must not have 'conditions'", sc.Value, sc.Trigger.Source)
			}
		case SourceEnv:
			if len(sc.Trigger.Conditions) == 0 {
				return fmt.Errorf("scenario %q: source 'env' must have 'conditions'", sc.Value)
			}
		}
	}
	return nil
}
