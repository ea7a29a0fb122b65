package config

import (
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema returns the JSON Schema for the orchestrator
// configuration (template/scenario/config.json), for editor
// autocompletion via the yaml/json-language-server $schema convention.
func GenerateJSONSchema() string {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}

	s := r.Reflect(&AppConfig{})
	s.ID = "https://github.com/confctl/confctl/raw/main/confctl.schema.json"
	s.Title = "confctl orchestrator configuration"
	s.Description = "Configuration schema for confctl - scenario-driven YAML/INI configuration generator"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}

	return string(data)
}
