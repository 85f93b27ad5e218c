package main

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/sentrytools"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	str2duration "github.com/xhit/go-str2duration/v2"
	"regioevents.dev/internal/config"
	"regioevents.dev/internal/jobs"
	"regioevents.dev/internal/repositories"
	"regioevents.dev/internal/services"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Application struct {
	logger       *slog.Logger
	config       config.Config
	db           postgres.DB
	jobQueue     *threading.JobQueue
	Services     *services.Services
	Repositories *repositories.Repositories
}

func main() {
	cfg := config.New(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	logger := slog.New(sentrytools.NewLogHandler(cfg.Env,
		slog.NewTextHandler(os.Stdout, nil)))
	db, err := postgres.Connect(
		logger,
		cfg.DBDsn,
		25, //nolint:mnd //no magic number
		"15m",
		60,             //nolint:mnd //no magic number
		10*time.Second, //nolint:mnd //no magic number
		5*time.Minute,  //nolint:mnd //no magic number
	)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	app := NewApplication(logger, cfg, db)

	err = app.ApplyMigrations(db)
	if err != nil {
		panic(err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,  //nolint:mnd //no magic number
		WriteTimeout: 10 * time.Second, //nolint:mnd //no magic number
	}
	err = httptools.Serve(logger, srv, cfg.Env)
	if err != nil {
		logger.Error("failed to serve server", logging.ErrAttr(err))
	}
}

func NewApplication(
	logger *slog.Logger,
	cfg config.Config,
	db *pgxpool.Pool,
) *Application {
	//nolint:mnd //no magic number
	jobQueue := threading.NewJobQueue(logger, 2, 100)

	spandb := postgres.NewSpanDB(db)

	repos := repositories.New(spandb)

	app := &Application{
		logger:       logger,
		config:       cfg,
		db:           spandb,
		jobQueue:     jobQueue,
		Services:     services.New(logger, cfg, repos),
		Repositories: repos,
	}

	app.setJobs()

	return app
}

func (app *Application) setJobs() {
	every, err := str2duration.ParseDuration(app.config.MaterializeEvery)
	if err != nil {
		panic(err)
	}

	err = app.jobQueue.AddJob(
		jobs.NewMaterializeJob(
			app.Services.Materializer,
			app.config.MonthsAhead,
			every,
		),
		app.jobStateChanged,
	)
	if err != nil {
		panic(err)
	}
}

func (app *Application) jobStateChanged(
	id string,
	isRunning bool,
	_ *time.Time,
) {
	app.logger.Debug(fmt.Sprintf("job %s running=%t", id, isRunning))
}

func (app *Application) ApplyMigrations(db *pgxpool.Pool) error {
	migrationsDB := stdlib.OpenDBFromPool(db)

	goose.SetLogger(slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo))

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}

	if err := goose.Up(migrationsDB, "migrations"); err != nil {
		return err
	}

	return nil
}
