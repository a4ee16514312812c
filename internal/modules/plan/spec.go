package plan

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/studyforge/studyforge-backend/internal/logger"
)

const planPipelineEnv = "PLAN_PIPELINE_YAML"

//go:embed pipeline.yaml
var planSpecFS embed.FS

// Stage names. The YAML spec must use the same identifiers.
const (
	StageSyllabusAnalysis       = "syllabus_analysis"
	StageLearningProfile        = "learning_profile"
	StageScheduleSynthesis      = "schedule_synthesis"
	StageResourceRecommendation = "resource_recommendation"
	StageProgressTracking       = "progress_tracking"
)

// fallback stage graph used when YAML is missing or invalid
var fallbackStageOrder = []string{
	StageSyllabusAnalysis,
	StageLearningProfile,
	StageScheduleSynthesis,
	StageResourceRecommendation,
	StageProgressTracking,
}

var fallbackStageDeps = map[string][]string{
	StageScheduleSynthesis:      {StageSyllabusAnalysis, StageLearningProfile},
	StageResourceRecommendation: {StageSyllabusAnalysis, StageLearningProfile},
	StageProgressTracking:       {StageScheduleSynthesis},
}

type yamlPipelineSpec struct {
	Pipeline string          `yaml:"pipeline"`
	Version  int             `yaml:"version"`
	Stages   []yamlStageSpec `yaml:"stages"`
}

type yamlStageSpec struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"depends_on"`
	Enabled   *bool    `yaml:"enabled"`
}

type pipelineRuntime struct {
	StageOrder []string
	Stages     map[string]yamlStageSpec
}

var runtimeOnce sync.Once
var runtimeCache *pipelineRuntime
var runtimeErr error

func currentPipelineRuntime(log *logger.Logger) *pipelineRuntime {
	runtimeOnce.Do(func() {
		runtimeCache, runtimeErr = loadPipelineRuntime()
	})
	if runtimeErr != nil {
		if log != nil {
			log.Warn("plan_build: pipeline spec load failed; using fallback", "error", runtimeErr)
		}
		return nil
	}
	return runtimeCache
}

func pipelineStageOrder(log *logger.Logger) []string {
	if rt := currentPipelineRuntime(log); rt != nil && len(rt.StageOrder) > 0 {
		return rt.StageOrder
	}
	return fallbackStageOrder
}

func pipelineStageDeps(log *logger.Logger, name string) []string {
	if rt := currentPipelineRuntime(log); rt != nil {
		if spec, ok := rt.Stages[name]; ok {
			return spec.DependsOn
		}
		return nil
	}
	return fallbackStageDeps[name]
}

// StageLevels batches the stage graph into topological levels: a stage lands
// one level after the deepest of its dependencies. Stages within a level are
// independent of each other and run concurrently.
func StageLevels(log *logger.Logger) [][]string {
	order := pipelineStageOrder(log)
	depth := make(map[string]int, len(order))
	for _, name := range order {
		d := 0
		for _, dep := range pipelineStageDeps(log, name) {
			// Spec validation guarantees deps appear earlier in order,
			// so their depth is already known.
			if dd, ok := depth[dep]; ok && dd+1 > d {
				d = dd + 1
			}
		}
		depth[name] = d
	}
	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	levels := make([][]string, maxDepth+1)
	for _, name := range order {
		d := depth[name]
		levels[d] = append(levels[d], name)
	}
	return levels
}

func loadPipelineRuntime() (*pipelineRuntime, error) {
	data, err := readPlanSpec()
	if err != nil {
		return nil, err
	}

	var spec yamlPipelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := validatePipelineSpec(&spec); err != nil {
		return nil, err
	}

	order := make([]string, 0, len(spec.Stages))
	stages := make(map[string]yamlStageSpec, len(spec.Stages))
	for _, stage := range spec.Stages {
		if stage.Name == "" {
			continue
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		stage.DependsOn = dedupeStrings(stage.DependsOn)
		order = append(order, stage.Name)
		stages[stage.Name] = stage
	}

	return &pipelineRuntime{
		StageOrder: order,
		Stages:     stages,
	}, nil
}

func readPlanSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(planPipelineEnv)); path != "" {
		return os.ReadFile(path)
	}
	return planSpecFS.ReadFile("pipeline.yaml")
}

func validatePipelineSpec(spec *yamlPipelineSpec) error {
	if spec == nil {
		return errors.New("missing spec")
	}
	if strings.TrimSpace(spec.Pipeline) != "plan_build" {
		return fmt.Errorf("unexpected pipeline: %s", spec.Pipeline)
	}
	if len(spec.Stages) == 0 {
		return errors.New("no stages defined")
	}

	enabled := map[string]bool{}
	order := make([]string, 0, len(spec.Stages))
	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			return errors.New("stage name is required")
		}
		if _, exists := enabled[name]; exists {
			return fmt.Errorf("duplicate stage name: %s", name)
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		enabled[name] = true
		order = append(order, name)
	}

	orderIndex := map[string]int{}
	for i, name := range order {
		orderIndex[name] = i
	}

	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" || (stage.Enabled != nil && !*stage.Enabled) {
			continue
		}
		for _, dep := range stage.DependsOn {
			dep = strings.TrimSpace(dep)
			if dep == "" {
				continue
			}
			if !enabled[dep] {
				return fmt.Errorf("stage %s: unknown dependency %s", name, dep)
			}
			if orderIndex[dep] > orderIndex[name] {
				return fmt.Errorf("stage %s: dependency %s appears after stage in order", name, dep)
			}
		}
	}

	return nil
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
