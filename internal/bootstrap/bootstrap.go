package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studysprint/internal/api"
	achievementinadapter "studysprint/internal/modules/achievement/adapter/in"
	achievementoutadapter "studysprint/internal/modules/achievement/adapter/out"
	achievementin "studysprint/internal/modules/achievement/port/in"
	achievementservice "studysprint/internal/modules/achievement/service"
	achievementusecase "studysprint/internal/modules/achievement/usecase"
	statsinadapter "studysprint/internal/modules/stats/adapter/in"
	statsoutadapter "studysprint/internal/modules/stats/adapter/out"
	statsin "studysprint/internal/modules/stats/port/in"
	statsservice "studysprint/internal/modules/stats/service"
	statsusecase "studysprint/internal/modules/stats/usecase"
	storeinadapter "studysprint/internal/modules/store/adapter/in"
	storeoutadapter "studysprint/internal/modules/store/adapter/out"
	storein "studysprint/internal/modules/store/port/in"
	storeservice "studysprint/internal/modules/store/service"
	storeusecase "studysprint/internal/modules/store/usecase"
	timeroutadapter "studysprint/internal/modules/timer/adapter/out"
	timerin "studysprint/internal/modules/timer/port/in"
	timerservice "studysprint/internal/modules/timer/service"
	timerusecase "studysprint/internal/modules/timer/usecase"
	"studysprint/internal/platform/clock"
	"studysprint/internal/platform/config"
	"studysprint/internal/platform/id"
	"studysprint/internal/platform/logging"
	uiapp "studysprint/internal/ui/app"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config config.Config
	Logger *slog.Logger

	Store        storein.Usecase
	Timer        timerin.Usecase
	Achievements achievementin.Usecase
	Stats        statsin.Usecase

	StoreCLI       storeinadapter.CLIHandler
	AchievementCLI achievementinadapter.CLIHandler
	StatsCLI       statsinadapter.CLIHandler

	storeSvc  *storeservice.StoreService
	projector *statsoutadapter.SQLiteProjector
	logCloser io.Closer
}

// New wires every module against cfg. logOut receives a copy of the log
// stream in addition to the log file.
func New(ctx context.Context, cfg config.Config, logOut ...io.Writer) (*App, error) {
	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel, logOut...)
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	storeSvc := storeservice.NewStoreService(ctx,
		storeoutadapter.NewJSONSnapshotRepository(cfg.StatePath),
		storeoutadapter.NewVaultNoteWriter(),
		ids,
		logger.With(slog.String("module", "store")),
	)
	storeUC := storeusecase.NewInteractor(storeSvc, cfg.NotesDir)

	timerBridge := timeroutadapter.NewStoreBridge(storeUC)
	timerSvc, err := timerservice.NewTimerService(ctx, clk, ids, timerBridge, timerBridge, logger.With(slog.String("module", "timer")))
	if err != nil {
		storeSvc.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("new timer: %w", err)
	}

	achievementUC := achievementusecase.NewInteractor(achievementservice.NewAchievementService(
		clk,
		achievementoutadapter.NewStoreBridge(storeUC),
		logger.With(slog.String("module", "achievement")),
	))

	projector, err := statsoutadapter.NewSQLiteProjector(cfg.DBPath)
	if err != nil {
		storeSvc.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("new stats projector: %w", err)
	}
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		clk, storeUC, projector, logger.With(slog.String("module", "stats")),
	))

	logger.Debug("app wired", slog.String("data_dir", cfg.DataDir))
	return &App{
		Config:         cfg,
		Logger:         logger,
		Store:          storeUC,
		Timer:          timerusecase.NewInteractor(timerSvc),
		Achievements:   achievementUC,
		Stats:          statsUC,
		StoreCLI:       storeinadapter.NewCLIHandler(storeUC),
		AchievementCLI: achievementinadapter.NewCLIHandler(achievementUC),
		StatsCLI:       statsinadapter.NewCLIHandler(statsUC),
		storeSvc:       storeSvc,
		projector:      projector,
		logCloser:      logCloser,
	}, nil
}

// Close flushes the pending snapshot before releasing the database and log.
func (a *App) Close() error {
	a.storeSvc.Close()
	return errors.Join(a.projector.Close(), a.logCloser.Close())
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Timer, app.Store, app.Achievements, app.Stats)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Handler returns the HTTP API for app.
func (a *App) Handler() http.Handler {
	return api.NewRouter(a.Store, a.Achievements, a.Stats, a.Logger)
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func Serve(ctx context.Context, app *App, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("http api listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	app.Logger.Info("http api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
