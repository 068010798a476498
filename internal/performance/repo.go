package performance

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrProgramNotFound = errors.New("program not found")

// Repo reads the set history written by the scraper into postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func setSpanParams(span trace.Span, params Params) {
	span.SetAttributes(attribute.String("client_id", params.ClientID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}
}

// ListPerformance returns all sets matching the params, ordered by session.
// Rows that fail validation are returned as rejections, not as errors.
func (r *Repo) ListPerformance(ctx context.Context, params Params) (_ *Batch, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.performance.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setSpanParams(span, params)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				client_id, exercise_name, workout_name, session_date, set_number, weight, reps
			FROM performance_set
				WHERE ($1::text = '' OR client_id = $1)
				AND ($2::timestamptz IS NULL OR session_date >= $2)
				AND ($3::timestamptz IS NULL OR session_date < $3)
			ORDER BY client_id, session_date, workout_name, set_number;`,
		params.ClientID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	batch := &Batch{}
	for rows.Next() {
		var rec progression.PerformanceRecord
		if err := rows.Scan(
			&rec.ClientID, &rec.ExerciseName, &rec.WorkoutName,
			&rec.SessionDate, &rec.SetNumber, &rec.Weight, &rec.Reps,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		batch.add(rec, fmt.Sprintf("%vkg*%d", rec.Weight, rec.Reps))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("records", len(batch.Records)))
	span.SetAttributes(attribute.Int("rejected", len(batch.Rejected)))

	return batch, nil
}

// ListClients returns the distinct clients with at least one set in the period.
func (r *Repo) ListClients(ctx context.Context, params Params) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.performance.clients")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setSpanParams(span, params)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT DISTINCT client_id FROM performance_set
				WHERE ($1::timestamptz IS NULL OR session_date >= $1)
				AND ($2::timestamptz IS NULL OR session_date < $2)
			ORDER BY client_id;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	clients := make([]string, 0)
	for rows.Next() {
		var clientID string
		if err := rows.Scan(&clientID); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		clients = append(clients, clientID)
	}

	return clients, rows.Err()
}

// AddRecords stores scraped sets, used when importing legacy history.
func (r *Repo) AddRecords(ctx context.Context, records []progression.PerformanceRecord) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.performance.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("records", len(records)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var added int64
	for _, rec := range records {
		tag, err := tx.Exec(
			ctx,
			`INSERT INTO performance_set
				(client_id, exercise_name, workout_name, session_date, set_number, weight, reps)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (client_id, exercise_name, workout_name, session_date, set_number) DO NOTHING;`,
			rec.ClientID, rec.ExerciseName, rec.WorkoutName, rec.SessionDate, rec.SetNumber, rec.Weight, rec.Reps,
		)
		if err != nil {
			return 0, fmt.Errorf("insert set: %w", err)
		}
		added += tag.RowsAffected()
	}

	return added, nil
}

// ClientProgram returns the exercises currently assigned to the client,
// grouped by workout in program order.
func (r *Repo) ClientProgram(ctx context.Context, clientID string) (_ *progression.Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.performance.program")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("client_id", clientID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT workout_name, exercise_name FROM client_program
				WHERE client_id = $1
			ORDER BY workout_position, exercise_position;`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	program := &progression.Program{ClientID: clientID}
	workoutIdx := make(map[string]int)
	for rows.Next() {
		var workoutName, exerciseName string
		if err := rows.Scan(&workoutName, &exerciseName); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		idx, ok := workoutIdx[workoutName]
		if !ok {
			idx = len(program.Workouts)
			workoutIdx[workoutName] = idx
			program.Workouts = append(program.Workouts, progression.ProgramWorkout{Name: workoutName})
		}
		program.Workouts[idx].Exercises = append(program.Workouts[idx].Exercises, exerciseName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(program.Workouts) == 0 {
		return nil, ErrProgramNotFound
	}

	return program, nil
}
