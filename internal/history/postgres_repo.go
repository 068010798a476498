package history

import (
	"context"
	"fmt"

	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{
		db: db,
	}
}

func (r *PostgresRepo) Get(ctx context.Context, clientID, weekID string) (_ *progression.WeekGoals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("client_id", clientID))
	span.SetAttributes(attribute.String("week_id", weekID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				workout_name, exercise_name, goal, decisions, no_data, created_at
			FROM goal_record
				WHERE client_id = $1 AND week_id = $2
			ORDER BY position;`,
		clientID, weekID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	goals := &progression.WeekGoals{
		ClientID: clientID,
		WeekID:   weekID,
	}
	for rows.Next() {
		rec := progression.GoalRecord{
			ClientID: clientID,
			WeekID:   weekID,
		}
		if err := rows.Scan(
			&rec.WorkoutName, &rec.ExerciseName, &rec.Goal,
			&rec.Decisions, &rec.NoData, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		goals.Records = append(goals.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(goals.Records) == 0 {
		return nil, ErrGoalsNotFound
	}
	goals.CreatedAt = goals.Records[0].CreatedAt

	return goals, nil
}

// Put replaces the stored goals of the client for the week in a single transaction.
func (r *PostgresRepo) Put(ctx context.Context, goals *progression.WeekGoals) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateGoals(goals); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("client_id", goals.ClientID))
	span.SetAttributes(attribute.String("week_id", goals.WeekID))
	span.SetAttributes(attribute.Int("records", len(goals.Records)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
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

	if _, err := tx.Exec(
		ctx,
		`DELETE FROM goal_record WHERE client_id = $1 AND week_id = $2;`,
		goals.ClientID, goals.WeekID,
	); err != nil {
		return fmt.Errorf("delete previous goals: %w", err)
	}

	for i, rec := range goals.Records {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO goal_record
				(client_id, week_id, position, workout_name, exercise_name, goal, decisions, no_data, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
			goals.ClientID, goals.WeekID, i, rec.WorkoutName, rec.ExerciseName,
			rec.Goal, rec.Decisions, rec.NoData, rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert goal [%s]: %w", rec.ExerciseName, err)
		}
	}

	return nil
}
