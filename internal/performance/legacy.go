package performance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/2beens/overload/internal/progression"

	log "github.com/sirupsen/logrus"
)

const legacyColumns = 5

var legacyDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

type legacyRejection struct {
	Rejection
	date  time.Time
	dated bool
}

// LegacyCSVSource serves history exported by the old scraping scripts,
// where every row holds one exercise of one session in text form:
//
//	client_id,workout_name,session_date,exercise_name,performance
//	anna,Upper Body,2026-10-06,Dumbbell Shoulder Press,S1: 20kg*9 | S2: 25kg*8
type LegacyCSVSource struct {
	records  []progression.PerformanceRecord
	rejected []legacyRejection
}

func NewLegacyCSVSource(r io.Reader) (*LegacyCSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	s := &LegacyCSVSource{}
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "client_id") {
			continue
		}
		if len(row) < legacyColumns {
			log.Warnf("legacy history line %d: expected %d columns, got %d, skipping", line, legacyColumns, len(row))
			continue
		}

		s.addRow(row)
	}

	log.Debugf("legacy history loaded: %d set records, %d rejected exercises", len(s.records), len(s.rejected))

	return s, nil
}

func (s *LegacyCSVSource) addRow(row []string) {
	clientID := strings.TrimSpace(row[0])
	workoutName := strings.TrimSpace(row[1])
	exerciseName := strings.TrimSpace(row[3])
	raw := strings.TrimSpace(row[4])

	reject := func(err error, date time.Time, dated bool) {
		log.Warnf("legacy history [%s / %s / %s]: %s", clientID, workoutName, exerciseName, err)
		s.rejected = append(s.rejected, legacyRejection{
			Rejection: Rejection{
				ClientID:     clientID,
				WorkoutName:  workoutName,
				ExerciseName: exerciseName,
				Raw:          raw,
				Err:          err,
			},
			date:  date,
			dated: dated,
		})
	}

	date, err := parseLegacyDate(row[2])
	if err != nil {
		reject(err, time.Time{}, false)
		return
	}

	res := progression.DecodeGoal(raw)
	if !res.OK() {
		reject(res.Err, date, true)
		return
	}

	batch := &Batch{}
	for _, set := range res.Sets {
		batch.add(progression.PerformanceRecord{
			ClientID:     clientID,
			ExerciseName: exerciseName,
			WorkoutName:  workoutName,
			SessionDate:  date,
			SetNumber:    set.SetNumber,
			Weight:       set.Weight,
			Reps:         set.Reps,
		}, raw)
	}
	if len(batch.Rejected) > 0 {
		reject(batch.Rejected[0].Err, date, true)
		return
	}
	s.records = append(s.records, batch.Records...)
}

func parseLegacyDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &progression.ParseError{Input: value, Reason: "unknown date format"}
}

func (s *LegacyCSVSource) ListPerformance(_ context.Context, params Params) (*Batch, error) {
	batch := &Batch{}
	for _, rec := range s.records {
		if params.ClientID != "" && rec.ClientID != params.ClientID {
			continue
		}
		if !params.contains(rec.SessionDate) {
			continue
		}
		batch.Records = append(batch.Records, rec)
	}

	for _, rej := range s.rejected {
		if params.ClientID != "" && rej.ClientID != params.ClientID {
			continue
		}
		// undated rejections can not be placed outside the window
		if rej.dated && !params.contains(rej.date) {
			continue
		}
		batch.Rejected = append(batch.Rejected, rej.Rejection)
	}

	return batch, nil
}

func (s *LegacyCSVSource) ListClients(_ context.Context, params Params) ([]string, error) {
	seen := make(map[string]bool)
	clients := make([]string, 0)
	for _, rec := range s.records {
		if seen[rec.ClientID] || !params.contains(rec.SessionDate) {
			continue
		}
		seen[rec.ClientID] = true
		clients = append(clients, rec.ClientID)
	}
	sort.Strings(clients)
	return clients, nil
}

// Records returns every valid record read from the file.
func (s *LegacyCSVSource) Records() []progression.PerformanceRecord {
	records := make([]progression.PerformanceRecord, len(s.records))
	copy(records, s.records)
	return records
}
