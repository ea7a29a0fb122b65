// Package generate is the top-level orchestrator: it ties scenario
// activation, file collection, schema merging, variable substitution, and
// rendering together into the steps that produce confctl's output tree.
package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/confctl/confctl/internal/activate"
	"github.com/confctl/confctl/internal/collect"
	"github.com/confctl/confctl/internal/merge"
	"github.com/confctl/confctl/internal/render"
	"github.com/confctl/confctl/internal/render/inigen"
	"github.com/confctl/confctl/internal/render/yamlgen"
	"github.com/confctl/confctl/internal/schema"
	"github.com/confctl/confctl/internal/substitute"
	"github.com/confctl/confctl/pkg/config"
	"github.com/confctl/confctl/pkg/log"
)

// Options carries everything a generation or check run needs beyond the
// loaded orchestrator config.
type Options struct {
	ConfigPath string
	OutputDir  string
	Check      bool // validate every configured scenario's templates, generate nothing
}

// EnvMap snapshots the process environment into a lookup map.
func EnvMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// Run loads the orchestrator config and either validates every configured
// scenario's templates (Check mode) or generates output for the scenarios
// active in the current environment.
func Run(opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid scenario configuration: %w", err)
	}

	if opts.Check {
		errs := validateScenarioTemplates(cfg.Scenarios)
		if len(errs) > 0 {
			for _, e := range errs {
				log.Error(e)
			}
			return fmt.Errorf("%d schema validation error(s)", len(errs))
		}
		log.Info("all scenario templates are valid")
		return nil
	}

	env := EnvMap()

	active := activate.Active(cfg, env)
	if len(active) == 0 {
		log.Warn("no active scenarios for this environment")
	} else {
		log.IncreasePadding()
		for _, sc := range active {
			log.WithField("priority", sc.Priority).Info(sc.Value)
		}
		log.DecreasePadding()
	}

	if err := activate.ValidateRequiredEnvVars(cfg, active, env); err != nil {
		return err
	}

	if errs := validateScenarioTemplates(active); len(errs) > 0 {
		for _, e := range errs {
			log.Error(e)
		}
		return fmt.Errorf("%d schema validation error(s)", len(errs))
	}

	sources, err := collect.Collect(active)
	if err != nil {
		return fmt.Errorf("collecting scenario files: %w", err)
	}

	destinations := make([]string, 0, len(sources))
	for dest := range sources {
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)

	opts2 := render.Options{
		OverrideHintStyle: cfg.OverrideHintStyle,
		TopLevelSpacing:   cfg.TopLevelSpacing,
	}

	for _, dest := range destinations {
		if err := processDestination(dest, sources[dest], env, opts, opts2); err != nil {
			log.WithError(err).Errorf("skipping destination %s", dest)
		}
	}

	return nil
}

// validateScenarioTemplates walks each scenario's template root and runs the
// schema structural validator over every JSON schema file it discovers,
// independent of which scenarios are currently active.
func validateScenarioTemplates(scenarios []config.ScenarioConfig) []string {
	var errs []string
	for _, sc := range scenarios {
		if sc.Path == "" {
			continue
		}
		_ = filepath.Walk(sc.Path, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			if !strings.HasSuffix(path, ".ini.json") && !strings.HasSuffix(path, ".yml.json") {
				return nil
			}
			nodes, loadErr := schema.LoadNodes(path)
			if loadErr != nil {
				errs = append(errs, fmt.Sprintf("[%s] %v", path, loadErr))
				return nil
			}
			errs = append(errs, schema.ValidateFile(nodes, path)...)
			return nil
		})
	}
	return errs
}

// processDestination resolves one grouped destination into a written file:
// a raw terminal source is copied and content-substituted, otherwise every
// JSON schema source is merged in scenario-priority order and rendered. An
// output file that already exists is left untouched.
func processDestination(dest string, sources []collect.Source, env map[string]string, opts Options, rOpts render.Options) error {
	if i := collect.LastRawConflict(sources); i != -1 {
		return fmt.Errorf("raw file %s cannot be overridden by a schema source", sources[i].Path)
	}

	destPath := substitute.Path(filepath.Join(opts.OutputDir, dest), env)

	if _, err := os.Stat(destPath); err == nil {
		log.Warnf("skip existing %s", destPath)
		return nil
	}

	if collect.IsRawTerminal(sources) {
		last := sources[len(sources)-1]
		content, err := os.ReadFile(last.Path)
		if err != nil {
			return fmt.Errorf("reading raw source %s: %w", last.Path, err)
		}
		return writeFile(destPath, substitute.Content(string(content), env))
	}

	var nodes []*schema.Node
	for _, src := range sources {
		if src.Type != collect.KindJSON {
			continue
		}
		overrideNodes, err := schema.LoadNodes(src.Path)
		if err != nil {
			return fmt.Errorf("loading schema source %s: %w", src.Path, err)
		}
		nodes = merge.Nodes(nodes, overrideNodes)
	}

	substitute.DefaultValues(nodes, env)

	var gen render.Generator
	if collect.IsINI(dest, sources) {
		gen = inigen.Renderer{}
	} else {
		gen = yamlgen.Renderer{}
	}

	text, err := gen.Generate(nodes, rOpts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", dest, err)
	}
	return writeFile(destPath, text)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Infof("wrote %s", path)
	return nil
}
