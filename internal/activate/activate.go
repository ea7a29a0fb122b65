// Package activate evaluates scenario triggers against the process
// environment to determine which scenarios apply to this run, and in what
// order.
package activate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/confctl/confctl/pkg/config"
)

// Active evaluates every scenario's trigger against env and returns the
// subset that activates, sorted by priority descending (the base/default
// layer first, the highest-priority override last).
func Active(app *config.AppConfig, env map[string]string) []config.ScenarioConfig {
	userSelection, hasUserSelection := env[app.ScenarioEnvKey]

	var active []config.ScenarioConfig
	for _, sc := range app.Scenarios {
		if !triggered(sc, userSelection, hasUserSelection, env) {
			continue
		}
		if sc.Trigger.Source == config.SourceDefault {
			sc.Priority = config.DefaultScenarioPriority
		}
		active = append(active, sc)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})
	return active
}

func triggered(sc config.ScenarioConfig, userSelection string, hasUserSelection bool, env map[string]string) bool {
	switch sc.Trigger.Source {
	case config.SourceDefault:
		return true
	case config.SourceUser:
		return hasUserSelection && userSelection == sc.Value
	case config.SourceEnv:
		if len(sc.Trigger.Conditions) == 0 {
			return false
		}
		matches := make([]bool, len(sc.Trigger.Conditions))
		for i, cond := range sc.Trigger.Conditions {
			re, err := regexp.Compile(cond.Regex)
			if err != nil {
				matches[i] = false
				continue
			}
			matches[i] = re.MatchString(env[cond.Key])
		}
		if sc.Trigger.Logic == config.LogicOr {
			return anyTrue(matches)
		}
		return allTrue(matches)
	default:
		return false
	}
}

func allTrue(vals []bool) bool {
	for _, v := range vals {
		if !v {
			return false
		}
	}
	return true
}

func anyTrue(vals []bool) bool {
	for _, v := range vals {
		if v {
			return true
		}
	}
	return false
}

// ValidateRequiredEnvVars asserts that every env var named by the app's
// default_env_vars, and by every active scenario's required_env_vars, is
// present in env.
func ValidateRequiredEnvVars(app *config.AppConfig, active []config.ScenarioConfig, env map[string]string) error {
	seen := map[string]bool{}
	var missing []string

	record := func(key string) {
		if key == "" {
			return
		}
		if _, ok := env[key]; ok {
			return
		}
		if !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}

	for _, ev := range app.DefaultEnvVars {
		record(ev.Key)
	}
	for _, sc := range active {
		for _, ev := range sc.RequiredEnvVars {
			record(ev.Key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("Missing required environment variables: %v", missing)
	}
	return nil
}
