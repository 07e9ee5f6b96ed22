// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/ambience/internal/adapter/artwork"
	"github.com/tejashwikalptaru/ambience/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/ambience/internal/adapter/playback/mock"
	"github.com/tejashwikalptaru/ambience/internal/adapter/playback/spotify"
	"github.com/tejashwikalptaru/ambience/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/ambience/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/ambience/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/ambience/internal/adapter/web"
	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
	"github.com/tejashwikalptaru/ambience/internal/palette"
	"github.com/tejashwikalptaru/ambience/internal/ports"
	"github.com/tejashwikalptaru/ambience/internal/service"
	"github.com/tejashwikalptaru/ambience/internal/theme"
	"github.com/tejashwikalptaru/ambience/internal/visualizer"
)

const readoutShutdownTimeout = 2 * time.Second

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	config  Config
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	source   ports.PlaybackSource
	loader   *artwork.Loader
	store    *theme.Store

	// Repositories
	settingsRepo ports.SettingsRepository
	historyRepo  ports.HistoryRepository

	// Services
	settingsService *service.SettingsService
	orchestrator    *service.Orchestrator
	themeService    *service.ThemeService
	historyService  *service.HistoryService
	playbackService *service.PlaybackService

	// Rendering
	stage   *visualizer.Stage
	overlay *visualizer.Overlay

	// Readout server, nil when disabled
	readout     *web.Server
	readoutAddr string

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	mu           sync.Mutex
	started      bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app := &Application{config: config}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create repositories and restore settings
	app.settingsRepo = memory.NewSettingsRepository(app.fyneApp.Preferences())
	app.historyRepo = memory.NewHistoryRepository(memory.MaxHistoryEntries)
	app.settingsService = service.NewSettingsService(app.logger, app.settingsRepo, service.Settings{
		FPS:                config.FPS,
		Crossfade:          config.CrossfadeDuration,
		TransitionsEnabled: true,
		LastRenderer:       domain.DefaultRenderer,
	})
	settings := app.settingsService.Get()

	// Step 5: Create the playback source and artwork loader
	app.source = app.newPlaybackSource()
	app.loader = artwork.NewLoader(app.logger, artwork.WithScheme(mock.Scheme, mock.Artwork{}))

	// Step 6: Create services (with dependency injection)
	app.store = theme.NewStore()
	app.orchestrator = service.NewOrchestrator(app.logger, app.eventBus, service.NewTimeSeededRandom())
	app.orchestrator.Restore(settings.LastRenderer)

	opts := palette.DefaultExtractOptions()
	opts.ColorCount = config.ColorCount
	opts.Quality = config.ExtractQuality
	app.themeService = service.NewThemeService(app.logger, app.eventBus, app.loader, app.store, opts)
	app.historyService = service.NewHistoryService(app.logger, app.eventBus, app.historyRepo)
	app.playbackService = service.NewPlaybackService(app.logger, app.source, app.eventBus, config.PollInterval)

	// Step 7: Create the stage and transition overlay
	app.stage = visualizer.NewStage(app.logger, app.orchestrator, app.store, visualizer.StageConfig{
		Viewport:  config.Viewport,
		FPS:       settings.FPS,
		Crossfade: settings.Crossfade,
	})
	app.overlay = visualizer.NewOverlay(app.logger, app.store, config.Viewport, settings.FPS)

	// Step 8: Create the readout server
	if config.ReadoutAddr != "" {
		app.readout = web.NewServer(app.logger, app.eventBus, app.store, app.orchestrator, app.historyService)
	}

	// Step 9: Create UI and wire the presenter
	stageView := widgets.NewStageView(app.stage, app.overlay, config.Viewport)
	title := fmt.Sprintf("%s %s", config.AppName, GetVersionInfo().Short())
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, title, stageView, app.store,
		app.logger.With(slog.String("component", "window")))
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.eventBus,
		app.mainWindow,
		app.stage,
		app.overlay,
		app.orchestrator,
		app.historyService,
		app.settingsService,
	)
	app.presenter.SetArtworkPicker(app.themeService)
	app.mainWindow.SetVersion(GetVersionInfo().FullString())
	app.mainWindow.SetPresenter(app.presenter)

	// Save state before the window closes, which also covers Cmd+Q.
	app.mainWindow.SetOnBeforeClose(func() {
		if err := app.saveState(); err != nil {
			app.logger.Warn("failed to save state on close", slog.Any("error", err))
		}
	})

	return app, nil
}

// newPlaybackSource picks Spotify when credentials are configured and the
// scripted demo source otherwise.
func (a *Application) newPlaybackSource() ports.PlaybackSource {
	if a.config.UseMockPlayback || !a.config.Spotify.Configured() {
		a.logger.Info("using demo playback source")
		return mock.NewDemoSource(a.config.MockHold)
	}

	creds := spotify.Credentials{
		ClientID:     a.config.Spotify.ClientID,
		ClientSecret: a.config.Spotify.ClientSecret,
		RefreshToken: a.config.Spotify.RefreshToken,
	}
	client := spotify.NewClientFromCredentials(context.Background(), creds, a.config.Spotify.BaseURL)
	client.SetLogger(a.logger)
	a.logger.Info("using spotify playback source")
	return client
}

// Start begins polling and serving readouts. It does not block.
func (a *Application) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	a.started = true

	if a.readout != nil {
		addr, err := a.readout.Start(a.config.ReadoutAddr)
		if err != nil {
			// Non-fatal - the window works without readouts
			a.logger.Warn("readout server disabled", slog.Any("error", err))
		} else {
			a.readoutAddr = addr
		}
	}
	a.playbackService.Start()
	return nil
}

// Run starts the application and blocks until the window is closed.
// This is called from main.go after the application is created.
func (a *Application) Run() error {
	if err := a.Start(); err != nil {
		return err
	}
	a.logger.Info("Ambience started", slog.String("source", a.source.Name()))
	a.mainWindow.ShowAndRun(a.settingsService.Get().FPS)
	return nil
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times; later calls return the first result.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown()
	})
	return a.shutdownErr
}

func (a *Application) shutdown() error {
	a.logger.Info("shutting down application")
	var errs []error

	if err := a.saveState(); err != nil {
		a.logger.Warn("failed to save state", slog.Any("error", err))
		errs = append(errs, err)
	}

	// Shutdown UI and presenter
	a.presenter.Shutdown()
	a.mainWindow.Close()

	if a.readout != nil {
		ctx, cancel := context.WithTimeout(context.Background(), readoutShutdownTimeout)
		if err := a.readout.Shutdown(ctx); err != nil {
			a.logger.Warn("failed to shutdown readout server", slog.Any("error", err))
			errs = append(errs, err)
		}
		cancel()
	}

	// Shutdown services (in reverse order of creation)
	a.playbackService.Shutdown()
	a.historyService.Shutdown()
	a.themeService.Shutdown()
	a.orchestrator.Shutdown()

	a.overlay.Close()
	a.stage.Close()
	a.store.Close()
	if err := a.eventBus.Close(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// saveState persists the renderer shown last so the next session opens with it.
func (a *Application) saveState() error {
	if err := a.settingsService.RememberRenderer(a.orchestrator.Active()); err != nil {
		return fmt.Errorf("failed to save last renderer: %w", err)
	}
	return nil
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetOrchestrator returns the visualizer orchestrator.
func (a *Application) GetOrchestrator() *service.Orchestrator {
	return a.orchestrator
}

// GetThemeStore returns the live palette store.
func (a *Application) GetThemeStore() *theme.Store {
	return a.store
}

// GetSettingsService returns the settings service.
func (a *Application) GetSettingsService() *service.SettingsService {
	return a.settingsService
}

// GetStage returns the visualizer stage.
func (a *Application) GetStage() *visualizer.Stage {
	return a.stage
}

// ReadoutAddr returns the bound readout address, empty when not serving.
func (a *Application) ReadoutAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readoutAddr
}

// PlaybackSourceName names the active playback source.
func (a *Application) PlaybackSourceName() string {
	return a.source.Name()
}
