package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/2beens/overload/internal/config"
	"github.com/2beens/overload/internal/db"
	"github.com/2beens/overload/internal/history"
	"github.com/2beens/overload/internal/logging"
	"github.com/2beens/overload/internal/performance"
	"github.com/2beens/overload/internal/planner"
	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/metrics"
	"github.com/2beens/overload/internal/telemetry/tracing"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	weekFlag := flag.String("week", "current", "week to plan, as YYYY-Www, or current")
	clientsFlag := flag.String("clients", "", "comma separated client ids, all clients with history in the window when empty")
	legacyCSV := flag.String("legacy-csv", "", "read the history from a legacy CSV export instead of postgres")
	importCSV := flag.Bool("import", false, "store the legacy CSV records in postgres before planning")
	dryRun := flag.Bool("dry-run", false, "compute and print the goals without storing them")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "overload-planner",
	})

	week, err := parseWeek(*weekFlag, time.Now())
	if err != nil {
		log.Fatalf("week: %s", err)
	}

	if *importCSV && *legacyCSV == "" {
		log.Fatalln("-import requires -legacy-csv")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := run(ctx, cfg, runParams{
		Week:             week,
		Clients:          parseClients(*clientsFlag),
		LegacyCSV:        *legacyCSV,
		Import:           *importCSV,
		DryRun:           *dryRun,
		HoneycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
		RedisPassword:    os.Getenv("OVERLOAD_REDIS_PASS"),
	}, os.Stdout)
	cancel()

	if runErr != nil {
		log.Errorf("planning week %s: %s", week, runErr)
		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}
}

type runParams struct {
	Week             progression.WeekID
	Clients          []string
	LegacyCSV        string
	Import           bool
	DryRun           bool
	HoneycombEnabled bool
	RedisPassword    string
}

// run plans one week and writes the report to out. Connections and the
// tracer are closed before it returns, also on failure.
func run(ctx context.Context, cfg *config.Config, params runParams, out io.Writer) error {
	var dbPool *pgxpool.Pool
	storesInPostgres := !params.DryRun && cfg.HistoryStore == config.HistoryStorePostgres
	if params.LegacyCSV == "" || params.Import || storesInPostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: params.HoneycombEnabled,
		})
		if err != nil {
			return fmt.Errorf("new db pool: %w", err)
		}
		defer dbPool.Close()

		if err := db.Migrate(ctx, dbPool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var rdb *redis.Client
	if !params.DryRun && cfg.HistoryStore == config.HistoryStoreRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client conn: %s", err)
			}
		}()
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombEnabled, "overload-planner", rdb)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer otelShutdown()

	plannerParams := planner.NewPlannerParams{
		MetricsManager: metrics.NewManager("overload", "planner", metrics.SetupPrometheus()),
		LookbackWeeks:  cfg.LookbackWeeks,
		Workers:        cfg.Workers,
		MinSets:        cfg.MinSets,
	}

	if dbPool != nil {
		performanceRepo := performance.NewRepo(dbPool)
		plannerParams.Source = performanceRepo
		plannerParams.Programs = performanceRepo
	}

	if params.LegacyCSV != "" {
		source, err := openLegacySource(params.LegacyCSV)
		if err != nil {
			return fmt.Errorf("legacy csv: %w", err)
		}
		if params.Import {
			added, err := performance.NewRepo(dbPool).AddRecords(ctx, source.Records())
			if err != nil {
				return fmt.Errorf("import legacy csv: %w", err)
			}
			log.Infof("imported %d performance records from [%s]", added, params.LegacyCSV)
		}
		// rejections only live in the csv, so it stays the source for this run
		plannerParams.Source = source
	}

	if !params.DryRun {
		goalsRepo, err := history.NewRepository(history.NewRepositoryParams{
			Store:       cfg.HistoryStore,
			DBPool:      dbPool,
			RedisClient: rdb,
			FilePath:    cfg.HistoryFilePath,
		})
		if err != nil {
			return fmt.Errorf("goals repository: %w", err)
		}
		plannerParams.Repo = goalsRepo
	}

	report, runErr := planner.NewPlanner(plannerParams).Run(ctx, planner.RunParams{
		Week:      params.Week,
		ClientIDs: params.Clients,
		DryRun:    params.DryRun,
	})
	if report != nil {
		if err := report.WriteText(out); err != nil {
			log.Errorf("write report: %s", err)
		}
	}

	return runErr
}

func parseWeek(value string, now time.Time) (progression.WeekID, error) {
	if value == "" || value == "current" {
		return progression.WeekOf(now), nil
	}
	return progression.ParseWeekID(value)
}

func parseClients(value string) []string {
	var clients []string
	for _, c := range strings.Split(value, ",") {
		if c = strings.TrimSpace(c); c != "" {
			clients = append(clients, c)
		}
	}
	return clients
}

func openLegacySource(path string) (*performance.LegacyCSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("close legacy csv file: %s", err)
		}
	}()

	return performance.NewLegacyCSVSource(f)
}
