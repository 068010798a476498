package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/overload/internal/history"
	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/metrics"
	"github.com/2beens/overload/internal/telemetry/tracing"
	"github.com/2beens/overload/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const currentWeek = "current"

type goalsRepo interface {
	Get(ctx context.Context, clientID, weekID string) (*progression.WeekGoals, error)
}

type Handler struct {
	repo    goalsRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo goalsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/goals/{client}/{week}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-goals")
	r.HandleFunc("/goals/{client}/{week}/text", handler.HandleGetText).Methods("GET", "OPTIONS").Name("get-goals-text")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	weekGoals, ok := handler.weekGoals(w, r)
	if !ok {
		return
	}

	goalsJson, err := json.Marshal(weekGoals)
	if err != nil {
		log.Errorf("marshal week goals [%s / %s]: %s", weekGoals.ClientID, weekGoals.WeekID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGoalsServed.WithLabelValues("json").Inc()
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, goalsJson)
}

// HandleGetText serves the goals the way trainers paste them into the
// tracking app, one "workout | exercise: goal" line per exercise.
func (handler *Handler) HandleGetText(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	weekGoals, ok := handler.weekGoals(w, r)
	if !ok {
		return
	}

	var sb strings.Builder
	for _, record := range weekGoals.Records {
		sb.WriteString(fmt.Sprintf("%s | %s: %s\n", record.WorkoutName, record.ExerciseName, record.Goal))
	}

	handler.metrics.CounterGoalsServed.WithLabelValues("text").Inc()
	pkg.WriteTextResponseOK(w, sb.String())
}

func (handler *Handler) weekGoals(w http.ResponseWriter, r *http.Request) (*progression.WeekGoals, bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.get")
	defer span.End()

	vars := mux.Vars(r)
	clientID := vars["client"]
	if clientID == "" {
		http.Error(w, "error, client empty", http.StatusBadRequest)
		return nil, false
	}

	week, err := handler.resolveWeek(vars["week"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	span.SetAttributes(
		attribute.String("client", clientID),
		attribute.String("week", week.String()),
	)

	weekGoals, err := handler.repo.Get(ctx, clientID, week.String())
	if err != nil {
		if errors.Is(err, history.ErrGoalsNotFound) {
			http.Error(w, "goals not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get goals [%s / %s]: %s", clientID, week, err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return nil, false
	}

	return weekGoals, true
}

func (handler *Handler) resolveWeek(week string) (progression.WeekID, error) {
	if week == currentWeek {
		return progression.WeekOf(handler.now()), nil
	}
	return progression.ParseWeekID(week)
}
