package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/overload/internal/history"
	"github.com/2beens/overload/internal/performance"
	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/metrics"
	"github.com/2beens/overload/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers       = 4
	defaultLookbackWeeks = 2
)

type Planner struct {
	source        PerformanceSource
	programs      ProgramSource
	repo          GoalsRepo
	engine        *progression.Engine
	lookbackWeeks int
	workers       int
	metrics       *metrics.Manager
}

type NewPlannerParams struct {
	Source PerformanceSource
	// Programs is optional, without it the program is derived from the history window
	Programs ProgramSource
	// Repo is optional for dry runs
	Repo           GoalsRepo
	MetricsManager *metrics.Manager
	LookbackWeeks  int
	Workers        int
	MinSets        int
}

func NewPlanner(params NewPlannerParams) *Planner {
	p := &Planner{
		source:        params.Source,
		programs:      params.Programs,
		repo:          params.Repo,
		engine:        progression.NewEngine(params.MinSets),
		lookbackWeeks: params.LookbackWeeks,
		workers:       params.Workers,
		metrics:       params.MetricsManager,
	}
	if p.lookbackWeeks <= 0 {
		p.lookbackWeeks = defaultLookbackWeeks
	}
	if p.workers <= 0 {
		p.workers = defaultWorkers
	}
	return p
}

type RunParams struct {
	Week progression.WeekID
	// ClientIDs limits the run, all clients with history in the window are planned when empty
	ClientIDs []string
	DryRun    bool
}

// Run computes and stores the goals of every client for the week. The report
// is returned even when some clients failed; their errors are combined.
func (p *Planner) Run(ctx context.Context, params RunParams) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week_id", params.Week.String()))
	span.SetAttributes(attribute.Bool("dry_run", params.DryRun))

	if !params.DryRun && p.repo == nil {
		return nil, errors.New("goals repository not set, only dry runs possible")
	}

	defer func(begin time.Time) {
		if p.metrics != nil {
			p.metrics.HistRunDuration.Observe(time.Since(begin).Seconds())
		}
	}(time.Now())

	from, to := params.Week.Lookback(p.lookbackWeeks)
	clientIDs := params.ClientIDs
	if len(clientIDs) == 0 {
		clientIDs, err = p.source.ListClients(ctx, performance.Params{From: &from, To: &to})
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
	}
	span.SetAttributes(attribute.Int("clients", len(clientIDs)))
	if p.metrics != nil {
		p.metrics.GaugeClients.Set(float64(len(clientIDs)))
	}

	log.Infof("planning week %s for %d clients, history window [%s, %s)",
		params.Week, len(clientIDs), from.Format(time.DateOnly), to.Format(time.DateOnly))

	report := &Report{
		WeekID:  params.Week.String(),
		DryRun:  params.DryRun,
		Clients: make([]ClientReport, len(clientIDs)),
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, clientID := range clientIDs {
		i, clientID := i, clientID
		g.Go(func() error {
			report.Clients[i] = p.planClient(ctx, clientID, params, from, to)
			return nil
		})
	}
	_ = g.Wait()

	var runErr error
	for _, c := range report.Clients {
		runErr = multierr.Append(runErr, c.Err)
	}

	return report, runErr
}

func (p *Planner) planClient(
	ctx context.Context,
	clientID string,
	params RunParams,
	from, to time.Time,
) (cr ClientReport) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.client")
	defer func() {
		tracing.EndSpanWithErrCheck(span, cr.Err)
	}()
	span.SetAttributes(attribute.String("client_id", clientID))

	cr.ClientID = clientID
	if err := ctx.Err(); err != nil {
		cr.Err = fmt.Errorf("client [%s]: %w", clientID, err)
		return cr
	}

	batch, err := p.source.ListPerformance(ctx, performance.WindowParams(clientID, from, to))
	if err != nil {
		cr.Err = fmt.Errorf("client [%s]: list performance: %w", clientID, err)
		return cr
	}

	rejected := make(map[string]performance.Rejection)
	for _, rej := range batch.Rejected {
		if progression.ClassifyWorkout(rej.WorkoutName) == progression.WorkoutConditioning {
			continue
		}
		key := progression.ExerciseKey(rej.ExerciseName)
		if _, ok := rejected[key]; !ok {
			log.Warnf("client [%s] exercise [%s] skipped, bad history [%s]: %s", clientID, rej.ExerciseName, rej.Raw, rej.Err)
			rejected[key] = rej
		}
	}

	resistance, excluded := progression.FilterResistance(batch.Records)
	if len(excluded) > 0 {
		cr.ExcludedWorkouts = excluded
		if p.metrics != nil {
			for _, count := range excluded {
				p.metrics.CounterExcludedRecords.Add(float64(count))
			}
		}
	}

	bests := progression.BestPerformances(resistance)
	program := p.program(ctx, clientID, batch)

	goals := &progression.WeekGoals{
		ClientID:  clientID,
		WeekID:    params.Week.String(),
		Records:   make([]progression.GoalRecord, 0),
		CreatedAt: params.Week.Start(),
	}

	reported := make(map[string]bool)
	for _, workout := range program.Workouts {
		conditioning := progression.ClassifyWorkout(workout.Name) == progression.WorkoutConditioning
		for _, exercise := range workout.Exercises {
			key := progression.ExerciseKey(exercise)
			reported[key] = true

			if conditioning {
				cr.add(workout.Name, exercise, StatusExcluded, "", "conditioning workout")
				continue
			}
			if rej, ok := rejected[key]; ok {
				cr.add(workout.Name, exercise, StatusSkipped, "", rej.Err.Error())
				continue
			}

			best := bests[key]
			decisions := p.engine.Decide(exercise, best)
			rec := progression.NewGoalRecord(clientID, params.Week, workout.Name, exercise, decisions)
			goals.Records = append(goals.Records, rec)

			status := StatusProgressed
			reason := ""
			if best == nil {
				status = StatusDefaulted
				reason = progression.ErrMissingHistory.Error()
			}
			cr.add(workout.Name, exercise, status, rec.Goal, reason)
			p.observeDecisions(decisions)
		}
	}

	// rejected exercises the program does not know about still show up as skipped
	for _, rej := range batch.Rejected {
		key := progression.ExerciseKey(rej.ExerciseName)
		if reported[key] {
			continue
		}
		reported[key] = true
		if progression.ClassifyWorkout(rej.WorkoutName) == progression.WorkoutConditioning {
			cr.add(rej.WorkoutName, rej.ExerciseName, StatusExcluded, "", "conditioning workout")
			continue
		}
		cr.add(rej.WorkoutName, rej.ExerciseName, StatusSkipped, "", rej.Err.Error())
	}

	p.observeExercises(cr.Exercises)
	cr.Goals = goals

	if params.DryRun {
		return cr
	}

	if err := p.repo.Put(ctx, goals); err != nil {
		if p.metrics != nil {
			p.metrics.CounterPersistenceFailures.Inc()
		}
		log.Errorf("store goals of client [%s] for week %s: %s", clientID, goals.WeekID, err)
		cr.Err = &history.PersistenceError{
			ClientID: clientID,
			WeekID:   goals.WeekID,
			Err:      err,
		}
		return cr
	}
	cr.Persisted = true

	return cr
}

// program returns the assigned program of the client, or derives it from
// the records when none is assigned.
func (p *Planner) program(ctx context.Context, clientID string, batch *performance.Batch) *progression.Program {
	if p.programs != nil {
		program, err := p.programs.ClientProgram(ctx, clientID)
		if err == nil {
			return program
		}
		if !errors.Is(err, performance.ErrProgramNotFound) {
			log.Warnf("get program of client [%s], deriving from history: %s", clientID, err)
		}
	}
	return progression.ProgramFromRecords(clientID, batch.Records)
}

func (p *Planner) observeDecisions(decisions []progression.ProgressionDecision) {
	if p.metrics == nil {
		return
	}
	for _, d := range decisions {
		p.metrics.CounterDecisions.With(prometheus.Labels{
			"role":             string(d.Role),
			"weight_increased": strconv.FormatBool(d.WeightIncreased),
		}).Inc()
	}
}

func (p *Planner) observeExercises(exercises []ExerciseReport) {
	if p.metrics == nil {
		return
	}
	for _, ex := range exercises {
		p.metrics.CounterExercises.With(prometheus.Labels{"status": string(ex.Status)}).Inc()
	}
}
