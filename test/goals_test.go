//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/2beens/overload/internal/history"
	"github.com/2beens/overload/internal/performance"
	"github.com/2beens/overload/internal/planner"
	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/metrics"
)

func (s *IntegrationTestSuite) seedHistory(ctx context.Context) *performance.Repo {
	_, err := s.dbPool.Exec(
		ctx,
		`INSERT INTO client_program (client_id, workout_name, workout_position, exercise_name, exercise_position)
			VALUES ('anna', 'Upper Body', 1, 'Dumbbell Shoulder Press', 1),
			       ('anna', 'Upper Body', 1, 'Chin Up', 2),
			       ('anna', 'Conditioning', 2, 'Rowing Machine', 1)
			ON CONFLICT DO NOTHING;`,
	)
	s.Require().NoError(err)

	session := time.Date(2026, time.October, 6, 9, 0, 0, 0, time.UTC)
	repo := performance.NewRepo(s.dbPool)
	_, err = repo.AddRecords(ctx, []progression.PerformanceRecord{
		{ClientID: "anna", ExerciseName: "Dumbbell Shoulder Press", WorkoutName: "Upper Body", SessionDate: session, SetNumber: 1, Weight: 20, Reps: 9},
		{ClientID: "anna", ExerciseName: "Dumbbell Shoulder Press", WorkoutName: "Upper Body", SessionDate: session, SetNumber: 2, Weight: 25, Reps: 8},
		{ClientID: "anna", ExerciseName: "Rowing Machine", WorkoutName: "Conditioning", SessionDate: session, SetNumber: 1, Weight: 0, Reps: 500},
	})
	s.Require().NoError(err)

	return repo
}

func (s *IntegrationTestSuite) runPlanner(ctx context.Context, week string, dryRun bool) *planner.Report {
	weekID, err := progression.ParseWeekID(week)
	s.Require().NoError(err)

	repo := s.seedHistory(ctx)
	goalsRepo, err := history.NewRepository(history.NewRepositoryParams{
		Store:  history.StorePostgres,
		DBPool: s.dbPool,
	})
	s.Require().NoError(err)

	p := planner.NewPlanner(planner.NewPlannerParams{
		Source:         repo,
		Programs:       repo,
		Repo:           goalsRepo,
		MetricsManager: metrics.NewTestManager(),
		LookbackWeeks:  s.cfg.LookbackWeeks,
		Workers:        s.cfg.Workers,
		MinSets:        s.cfg.MinSets,
	})

	report, err := p.Run(ctx, planner.RunParams{Week: weekID, DryRun: dryRun})
	s.Require().NoError(err)
	return report
}

func (s *IntegrationTestSuite) get(path string) (int, string) {
	req, err := http.NewRequest(http.MethodGet, serverEndpoint+path, nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func (s *IntegrationTestSuite) TestPlanAndServeGoals() {
	ctx := context.Background()

	report := s.runPlanner(ctx, "2026-W42", false)
	anna := report.Client("anna")
	s.Require().NotNil(anna)
	s.Require().NoError(anna.Err)
	s.True(anna.Persisted)
	s.Equal(1, report.Counts()[planner.StatusProgressed])
	s.Equal(1, report.Counts()[planner.StatusDefaulted])
	s.Equal(1, report.Counts()[planner.StatusExcluded])

	status, body := s.get("/goals/anna/2026-W42")
	s.Require().Equal(http.StatusOK, status)

	var weekGoals progression.WeekGoals
	s.Require().NoError(json.Unmarshal([]byte(body), &weekGoals))
	s.Equal("anna", weekGoals.ClientID)
	s.Equal("2026-W42", weekGoals.WeekID)
	s.Require().Len(weekGoals.Records, 2)
	s.Equal("Dumbbell Shoulder Press", weekGoals.Records[0].ExerciseName)
	s.Equal("S1: 17.5kg*10 | S2: 25kg*10", weekGoals.Records[0].Goal)
	s.Equal("Chin Up", weekGoals.Records[1].ExerciseName)
	s.True(weekGoals.Records[1].NoData)

	status, body = s.get("/goals/anna/2026-W42/text")
	s.Require().Equal(http.StatusOK, status)
	s.Equal(
		"Upper Body | Dumbbell Shoulder Press: S1: 17.5kg*10 | S2: 25kg*10\n"+
			"Upper Body | Chin Up: S1: 0kg*6\n",
		body,
	)
}

func (s *IntegrationTestSuite) TestDryRunNotStored() {
	report := s.runPlanner(context.Background(), "2026-W43", true)
	s.True(report.DryRun)
	s.Require().NotNil(report.Client("anna"))
	s.False(report.Client("anna").Persisted)

	status, _ := s.get("/goals/anna/2026-W43")
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestBadRequests() {
	status, _ := s.get("/goals/anna/2026-W60")
	s.Equal(http.StatusBadRequest, status)

	// browsers from unknown origins are refused
	req, err := http.NewRequest(http.MethodGet, serverEndpoint+"/goals/anna/2026-W42", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestMetricsExposed() {
	resp, err := http.Get("http://" + serverHost + ":" + s.cfg.PrometheusMetricsPort + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "overload_goals_life_signal 1")
}
