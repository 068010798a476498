package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/overload/internal/config"
	"github.com/2beens/overload/internal/history"
	"github.com/2beens/overload/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeek(t *testing.T) {
	now := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

	week, err := parseWeek("current", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-W42", week.String())

	week, err = parseWeek("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-W42", week.String())

	week, err = parseWeek("2027-W01", now)
	require.NoError(t, err)
	assert.Equal(t, "2027-W01", week.String())

	_, err = parseWeek("next", now)
	assert.Error(t, err)
}

func TestParseClients(t *testing.T) {
	assert.Nil(t, parseClients(""))
	assert.Equal(t, []string{"anna", "bob"}, parseClients(" anna, ,bob "))
}

func TestOpenLegacySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	content := "client_id,workout_name,session_date,exercise_name,performance\n" +
		"anna,Upper A,2026-10-05,Dumbbell Shoulder Press,S1: 20kg*9 | S2: 25kg*8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	source, err := openLegacySource(path)
	require.NoError(t, err)
	assert.Len(t, source.Records(), 2)

	_, err = openLegacySource(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestRun_LegacyCSVToFileStore(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "history.csv")
	content := "client_id,workout_name,session_date,exercise_name,performance\n" +
		"anna,Upper A,2026-10-05,Dumbbell Shoulder Press,S1: 20kg*9 | S2: 25kg*8\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o600))

	cfg := &config.Config{
		HistoryStore:    config.HistoryStoreFile,
		HistoryFilePath: filepath.Join(dir, "goals.json"),
	}
	week, err := progression.ParseWeekID("2026-W42")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, runParams{Week: week, LegacyCSV: csvPath}, &out))
	assert.Contains(t, out.String(), "[anna] stored")
	assert.Contains(t, out.String(), "Upper A | Dumbbell Shoulder Press: S1: 17.5kg*10 | S2: 25kg*10")

	repo, err := history.NewFileRepo(cfg.HistoryFilePath)
	require.NoError(t, err)
	goals, err := repo.Get(context.Background(), "anna", "2026-W42")
	require.NoError(t, err)
	require.Len(t, goals.Records, 1)
	assert.Equal(t, "S1: 17.5kg*10 | S2: 25kg*10", goals.Records[0].Goal)
}

func TestRun_ReturnsSetupErrors(t *testing.T) {
	cfg := &config.Config{HistoryStore: config.HistoryStoreFile}
	week, err := progression.ParseWeekID("2026-W42")
	require.NoError(t, err)

	var out bytes.Buffer
	err = run(context.Background(), cfg, runParams{
		Week:      week,
		LegacyCSV: filepath.Join(t.TempDir(), "missing.csv"),
		DryRun:    true,
	}, &out)
	assert.ErrorContains(t, err, "legacy csv: open")
	assert.Empty(t, out.String())
}
