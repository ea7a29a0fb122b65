package activate

import (
	"testing"

	"github.com/confctl/confctl/pkg/config"
)

func TestActive(t *testing.T) {
	app := &config.AppConfig{
		ScenarioEnvKey: "SCENARIO_TYPE",
		Scenarios: []config.ScenarioConfig{
			{Value: "base", Priority: 1, Trigger: config.ScenarioTrigger{Source: config.SourceDefault}},
			{Value: "staging", Priority: 10, Trigger: config.ScenarioTrigger{Source: config.SourceUser}},
			{Value: "prod", Priority: 20, Trigger: config.ScenarioTrigger{Source: config.SourceUser}},
			{
				Value:    "ha",
				Priority: 30,
				Trigger: config.ScenarioTrigger{
					Source: config.SourceEnv,
					Logic:  config.LogicAnd,
					Conditions: []config.TriggerCondition{
						{Key: "REPLICAS", Regex: `^[2-9]\d*$`},
					},
				},
			},
		},
	}

	tests := []struct {
		name     string
		env      map[string]string
		expected []string
	}{
		{
			name:     "default applies first, user scenario last",
			env:      map[string]string{"SCENARIO_TYPE": "staging"},
			expected: []string{"base", "staging"},
		},
		{
			name:     "env condition activates ha scenario between default and user scenario",
			env:      map[string]string{"SCENARIO_TYPE": "prod", "REPLICAS": "3"},
			expected: []string{"base", "ha", "prod"},
		},
		{
			name:     "env condition not matched leaves scenario inactive",
			env:      map[string]string{"SCENARIO_TYPE": "prod", "REPLICAS": "1"},
			expected: []string{"base", "prod"},
		},
		{
			name:     "no user selection still activates default",
			env:      map[string]string{},
			expected: []string{"base"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := Active(app, tt.env)
			if len(active) != len(tt.expected) {
				t.Fatalf("got %d active scenarios, want %d: %+v", len(active), len(tt.expected), active)
			}
			for i, sc := range active {
				if sc.Value != tt.expected[i] {
					t.Errorf("active[%d] = %q, want %q", i, sc.Value, tt.expected[i])
				}
			}
		})
	}
}

func TestValidateRequiredEnvVars(t *testing.T) {
	app := &config.AppConfig{
		DefaultEnvVars: []config.EnvVarDef{{Key: "ALWAYS"}},
	}
	active := []config.ScenarioConfig{
		{Value: "prod", RequiredEnvVars: []config.EnvVarDef{{Key: "DB_PASSWORD"}}},
	}

	t.Run("missing vars reported", func(t *testing.T) {
		err := ValidateRequiredEnvVars(app, active, map[string]string{})
		if err == nil {
			t.Fatal("expected an error for missing required env vars")
		}
	})

	t.Run("all present passes", func(t *testing.T) {
		env := map[string]string{"ALWAYS": "1", "DB_PASSWORD": "secret"}
		if err := ValidateRequiredEnvVars(app, active, env); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
