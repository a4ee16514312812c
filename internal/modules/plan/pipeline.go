package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/logger"
	"github.com/studyforge/studyforge-backend/internal/modules/plan/steps"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

// Request is the shared context every stage reads from. It never changes
// while a pipeline runs; stages add to the result set, not to the request.
type Request struct {
	SyllabusText        string
	LearningPreferences string
	DurationDays        int
}

// Results holds one StageResult per stage. Slots for the first four stages
// may carry error markers; ProgressTracking is always a valid payload.
type Results struct {
	Analysis  types.StageResult
	Profile   types.StageResult
	Schedule  types.StageResult
	Resources types.StageResult
	Progress  types.StageResult
}

type Pipeline struct {
	log          *logger.Logger
	ai           openai.Client
	stageTimeout time.Duration
	tracer       trace.Tracer
}

func New(log *logger.Logger, ai openai.Client) *Pipeline {
	prompts.RegisterAll()
	// An overridden pipeline spec can declare a stage this binary has no
	// prompt for; flag that at construction, not mid-request.
	for _, name := range pipelineStageOrder(log) {
		if _, _, ok := prompts.Schema(prompts.PromptName(name)); !ok {
			log.Warn("stage has no registered prompt schema", "stage", name)
		}
	}
	timeoutSec := utils.GetEnvAsInt("PLAN_STAGE_TIMEOUT_SECONDS", 120, log)
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	return &Pipeline{
		log:          log.With("service", "PlanPipeline"),
		ai:           ai,
		stageTimeout: time.Duration(timeoutSec) * time.Second,
		tracer:       otel.Tracer("studyforge/plan-pipeline"),
	}
}

// Run executes the stage graph level by level. Stages within one level run
// concurrently; a degraded stage records an error marker and never cancels
// its level-mates, so Run itself cannot fail.
func (p *Pipeline) Run(ctx context.Context, req Request) Results {
	started := time.Now()

	var mu sync.Mutex
	results := map[string]types.StageResult{}
	get := func(name string) types.StageResult {
		mu.Lock()
		defer mu.Unlock()
		return results[name]
	}

	for _, level := range StageLevels(p.log) {
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range level {
			name := name
			g.Go(func() error {
				res := p.runStage(gctx, name, req, get)
				mu.Lock()
				results[name] = res
				mu.Unlock()
				return nil
			})
		}
		// Stage failures are absorbed into error markers; the only error
		// the group can surface is a cancelled parent context.
		_ = g.Wait()
	}

	degraded := 0
	for _, name := range pipelineStageOrder(p.log) {
		if results[name].Failed() {
			degraded++
		}
	}
	p.log.Info("plan pipeline finished",
		"duration", time.Since(started).String(),
		"stages", len(results),
		"degraded", degraded,
	)

	return Results{
		Analysis:  results[StageSyllabusAnalysis],
		Profile:   results[StageLearningProfile],
		Schedule:  results[StageScheduleSynthesis],
		Resources: results[StageResourceRecommendation],
		Progress:  results[StageProgressTracking],
	}
}

func (p *Pipeline) runStage(ctx context.Context, name string, req Request, get func(string) types.StageResult) types.StageResult {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "plan.stage."+name,
		trace.WithAttributes(attribute.String("plan.stage", name)),
	)
	defer span.End()

	started := time.Now()
	res := p.buildStage(ctx, name, req, get)
	if res.Failed() {
		span.SetAttributes(attribute.Bool("plan.stage.degraded", true))
		p.log.Warn("plan stage degraded",
			"stage", name,
			"duration", time.Since(started).String(),
			"error", res.ErrorMessage(),
		)
	} else {
		p.log.Debug("plan stage complete", "stage", name, "duration", time.Since(started).String())
	}
	return res
}

func (p *Pipeline) buildStage(ctx context.Context, name string, req Request, get func(string) types.StageResult) types.StageResult {
	switch name {
	case StageSyllabusAnalysis:
		analysis, err := steps.BuildSyllabusAnalysis(ctx, p.ai, req.SyllabusText)
		if err != nil {
			return types.ErrResult(err)
		}
		return types.OKResult(analysis)

	case StageLearningProfile:
		// Runs in the same level as the analysis stage, so there is no
		// analysis context to pass; the prompt treats it as optional.
		profile, err := steps.BuildLearningProfile(ctx, p.ai, req.LearningPreferences, "")
		if err != nil {
			return types.ErrResult(err)
		}
		return types.OKResult(profile)

	case StageScheduleSynthesis:
		schedule, err := steps.BuildStudySchedule(ctx, p.ai,
			contextJSON(get(StageSyllabusAnalysis)),
			contextJSON(get(StageLearningProfile)),
			req.DurationDays,
		)
		if err != nil {
			return types.ErrResult(err)
		}
		return types.OKResult(schedule)

	case StageResourceRecommendation:
		resources, err := steps.BuildResourceSet(ctx, p.ai,
			contextJSON(get(StageSyllabusAnalysis)),
			contextJSON(get(StageLearningProfile)),
		)
		if err != nil {
			return types.ErrResult(err)
		}
		return types.OKResult(resources)

	case StageProgressTracking:
		// Checkpoints are optional guidance: a degraded schedule or a failed
		// collaborator call both fall back to a valid empty plan.
		scheduleRes := get(StageScheduleSynthesis)
		if scheduleRes.Failed() {
			return types.OKResult(steps.DefaultProgressPlan())
		}
		progress, err := steps.BuildProgressPlan(ctx, p.ai,
			contextJSON(get(StageSyllabusAnalysis)),
			contextJSON(scheduleRes),
		)
		if err != nil {
			p.log.Warn("progress tracking fell back to default plan", "error", err)
			return types.OKResult(steps.DefaultProgressPlan())
		}
		return types.OKResult(progress)

	default:
		return types.ErrResult(fmt.Errorf("unknown pipeline stage: %s", name))
	}
}

// contextJSON serializes an upstream StageResult for prompt interpolation.
// Error markers serialize as {"error": ...}, which tells the model the
// upstream context is missing rather than hiding it.
func contextJSON(r types.StageResult) string {
	b, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(b)
}
