package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/lib/telemetry"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_pipeline_run = "pipeline.run"
)

var tracer = otel.Tracer("destinystats/pipeline")
var meter = otel.Meter("destinystats/pipeline")
var stageDuration, _ = meter.Float64Histogram(
	"pipeline.stage.duration",
	metric.WithUnit("s"),
)
var fanoutRequests, _ = meter.Int64Counter("pipeline.fanout.requests")

// Stage is one step of a pipeline. Run must not modify state, it returns a
// new State holding everything state had plus the stage's own fields.
type Stage interface {
	Name() string
	Run(ctx context.Context, cred Credential, state State) (State, error)
}

type stageFunc struct {
	name string
	run  func(ctx context.Context, cred Credential, state State) (State, error)
}

func (s stageFunc) Name() string {
	return s.name
}

func (s stageFunc) Run(ctx context.Context, cred Credential, state State) (State, error) {
	return s.run(ctx, cred, state)
}

// StageFunc adapts a function to Stage.
func StageFunc(name string, run func(ctx context.Context, cred Credential, state State) (State, error)) Stage {
	return stageFunc{name: name, run: run}
}

// Pipeline runs its stages in order, each one receiving the state the
// previous one returned.
type Pipeline struct {
	stages []Stage
	tel    telemetry.API
}

func New(tel telemetry.API, stages ...Stage) Pipeline {
	assert.NotNil("tel", tel)
	for _, stage := range stages {
		assert.NotNil("stage", stage)
	}
	return Pipeline{
		stages: stages,
		tel:    telemetry.NewScopedAPI("pipeline", tel),
	}
}

// Stages returns the stage names in run order.
func (p Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run stops at the first failing stage and returns its error as is.
func (p Pipeline) Run(ctx context.Context, cred Credential, state State) (State, error) {
	for _, stage := range p.stages {
		next, err := p.runStage(ctx, stage, cred, state)
		if err != nil {
			p.tel.ReportBroken(report_pipeline_run, err, stage.Name())
			return State{}, err
		}
		state = next
	}
	return state, nil
}

func (p Pipeline) runStage(ctx context.Context, stage Stage, cred Credential, state State) (State, error) {
	ctx, span := tracer.Start(ctx, stage.Name())
	defer span.End()

	p.tel.ReportDebug("stage start", stage.Name(), state.Fields())
	start := time.Now()

	next, err := stage.Run(ctx, cred, state)

	elapsed := time.Since(start)
	stageDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage.Name()),
		attribute.Bool("failed", err != nil),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage failed")
		return State{}, err
	}

	p.tel.ReportDebug("stage done", stage.Name(), elapsed.String(), next.Fields())
	return next, nil
}
