package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/pkg"

	log "github.com/sirupsen/logrus"
)

// legacyDateLayouts are tried in order when reading an entry date. The old
// scripts wrote naive ISO timestamps, sometimes only the day.
var legacyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// legacy progression actions
const (
	actionIncreaseWeight = "increase_weight"
	actionIncreaseReps   = "increase_reps"
	actionMaintain       = "maintain"
	actionStart          = "start"
)

// legacyProgression is the per exercise summary kept for the older
// reporting scripts, reading the same file.
type legacyProgression struct {
	CurrentWeight     float64 `json:"current_weight"`
	RecommendedWeight float64 `json:"recommended_weight"`
	CurrentReps       int     `json:"current_reps"`
	RecommendedReps   int     `json:"recommended_reps"`
	Reason            string  `json:"reason"`
	Confidence        string  `json:"confidence"`
	ActionType        string  `json:"action_type"`
}

type legacyEntry struct {
	Date         string                       `json:"date"`
	Week         string                       `json:"week"`
	Progressions map[string]legacyProgression `json:"progressions"`
	Records      []progression.GoalRecord     `json:"records,omitempty"`
}

// legacyHistory maps client id to its weekly entries.
type legacyHistory map[string][]legacyEntry

// FileRepo stores goals in a single JSON file, in the format the
// progress tracking scripts used before the database existed.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(path string) (*FileRepo, error) {
	dir := filepath.Dir(path)
	dirExists, err := pkg.PathExists(dir, true)
	if err != nil {
		return nil, fmt.Errorf("check history dir: %w", err)
	}
	if !dirExists {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	return &FileRepo{
		path: path,
	}, nil
}

func (r *FileRepo) Get(_ context.Context, clientID, weekID string) (*progression.WeekGoals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, entry := range h[clientID] {
		if entry.weekID() != weekID {
			continue
		}
		return entry.weekGoals(clientID)
	}

	return nil, ErrGoalsNotFound
}

// Put replaces the entry of the same week, or appends a new one.
func (r *FileRepo) Put(_ context.Context, goals *progression.WeekGoals) error {
	if err := validateGoals(goals); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.load()
	if err != nil {
		return err
	}

	entry := newLegacyEntry(goals)
	entries := h[goals.ClientID]
	replaced := false
	for i := range entries {
		if entries[i].weekID() == goals.WeekID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].weekID() < entries[j].weekID()
	})
	h[goals.ClientID] = entries

	return r.save(h)
}

func (r *FileRepo) load() (legacyHistory, error) {
	h := make(legacyHistory)

	historyBytes, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(historyBytes) == 0 {
		return h, nil
	}

	if err := json.Unmarshal(historyBytes, &h); err != nil {
		return nil, fmt.Errorf("unmarshal history file: %w", err)
	}

	return h, nil
}

// save writes to a temp file first, a crash never leaves a half written history.
func (r *FileRepo) save(h legacyHistory) error {
	historyBytes, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("remove temp history file: %s", err)
		}
	}()

	if _, err := tmp.Write(historyBytes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	return nil
}

func newLegacyEntry(goals *progression.WeekGoals) legacyEntry {
	entry := legacyEntry{
		Date:         goals.CreatedAt.UTC().Format(time.RFC3339),
		Week:         goals.WeekID,
		Progressions: make(map[string]legacyProgression, len(goals.Records)),
		Records:      goals.Records,
	}

	for _, rec := range goals.Records {
		d, ok := rec.PrimaryDecision()
		if !ok {
			continue
		}
		// the same exercise in two workouts keeps the first one
		if _, found := entry.Progressions[rec.ExerciseName]; found {
			continue
		}
		entry.Progressions[rec.ExerciseName] = legacyProgression{
			CurrentWeight:     d.CurrentWeight,
			RecommendedWeight: d.NextWeight,
			CurrentReps:       d.CurrentReps,
			RecommendedReps:   d.NextReps,
			Reason:            d.Rationale,
			Confidence:        confidence(rec),
			ActionType:        actionType(d),
		}
	}

	return entry
}

func confidence(rec progression.GoalRecord) string {
	if rec.NoData {
		return "low"
	}
	return "high"
}

func actionType(d progression.ProgressionDecision) string {
	switch {
	case d.Role == progression.RoleStarting:
		return actionStart
	case d.WeightIncreased:
		return actionIncreaseWeight
	case d.NextReps > d.CurrentReps:
		return actionIncreaseReps
	default:
		return actionMaintain
	}
}

func (e legacyEntry) date() (time.Time, error) {
	var err error
	for _, layout := range legacyDateLayouts {
		var date time.Time
		if date, err = time.Parse(layout, e.Date); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse legacy entry date %q: %w", e.Date, err)
}

// weekID is the entry's ISO week. Entries of the old scripts carry only
// the date, their week is the one the date falls in.
func (e legacyEntry) weekID() string {
	if week, err := progression.ParseWeekID(e.Week); err == nil {
		return week.String()
	}
	if date, err := e.date(); err == nil {
		return progression.WeekOf(date).String()
	}
	return e.Week
}

// weekGoals rebuilds the goals from the entry. Entries written by the old
// scripts only carry the summary; those become one set goal per exercise.
func (e legacyEntry) weekGoals(clientID string) (*progression.WeekGoals, error) {
	goals := &progression.WeekGoals{
		ClientID: clientID,
		WeekID:   e.weekID(),
	}

	if week, err := progression.ParseWeekID(e.Week); err == nil {
		goals.CreatedAt = week.Start()
	} else if date, dateErr := e.date(); dateErr == nil {
		goals.CreatedAt = date
	} else {
		return nil, fmt.Errorf("legacy entry without valid week or date: %w", dateErr)
	}

	if len(e.Records) > 0 {
		goals.Records = e.Records
		return goals, nil
	}

	exercises := make([]string, 0, len(e.Progressions))
	for name := range e.Progressions {
		exercises = append(exercises, name)
	}
	sort.Strings(exercises)

	for _, name := range exercises {
		p := e.Progressions[name]
		equipment, _ := progression.ClassifyEquipment(name)
		d := progression.ProgressionDecision{
			SetNumber:       1,
			Role:            progression.RoleWork,
			Equipment:       equipment,
			CurrentWeight:   p.CurrentWeight,
			CurrentReps:     p.CurrentReps,
			NextWeight:      p.RecommendedWeight,
			NextReps:        p.RecommendedReps,
			WeightIncreased: p.ActionType == actionIncreaseWeight,
			Rationale:       p.Reason,
		}
		if p.ActionType == actionStart {
			d.Role = progression.RoleStarting
		}
		goals.Records = append(goals.Records, progression.GoalRecord{
			ClientID:     clientID,
			WeekID:       goals.WeekID,
			ExerciseName: name,
			Goal:         progression.EncodeGoal([]progression.ProgressionDecision{d}),
			Decisions:    []progression.ProgressionDecision{d},
			NoData:       d.Role == progression.RoleStarting,
			CreatedAt:    goals.CreatedAt,
		})
	}

	return goals, nil
}
