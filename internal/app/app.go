// Package app wires the application together: configuration, logging,
// the event bus, the cooperative scheduler, the terminal surface, the
// remote compile service client, and the compile and format flows.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/compscope/internal/config"
	"github.com/dshills/compscope/internal/correlate"
	"github.com/dshills/compscope/internal/event"
	"github.com/dshills/compscope/internal/godbolt"
	"github.com/dshills/compscope/internal/orchestrate"
	"github.com/dshills/compscope/internal/task"
	"github.com/dshills/compscope/internal/ui"
)

// Options configures the application.
type Options struct {
	// ConfigPath is an explicit TOML configuration file path.
	ConfigPath string

	// LuaPath is an explicit Lua configuration file path.
	LuaPath string

	// File is the source file to open. Empty opens a scratch buffer.
	File string

	// ServiceURL overrides the configured compile service URL.
	ServiceURL string

	// LogLevel overrides the configured log level.
	LogLevel string
}

// Application is the central coordinator for all components. It owns
// their lifecycles; all state mutation happens on the scheduler loop.
type Application struct {
	opts Options
	cfg  config.Config

	logger  *Logger
	logFile *os.File

	bus        *event.Bus
	sched      *task.Scheduler
	client     *godbolt.Client
	controller *correlate.Controller
	doc        *Document

	ui   *ui.UI
	orch *orchestrate.Orchestrator

	running  atomic.Bool
	cancel   context.CancelFunc
	shutdown sync.Once
}

// New creates an application from the given options. The terminal
// surface is attached separately with SetScreen.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the screen-independent components in
// dependency order.
func (app *Application) bootstrap() error {
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.LuaPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.ServiceURL != "" {
		cfg.ServiceURL = app.opts.ServiceURL
	}
	if app.opts.LogLevel != "" {
		cfg.LogLevel = app.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	logger, logFile, err := newFileLogger(cfg.LogPath, ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	app.logger = logger
	app.logFile = logFile

	app.bus = event.NewBus(event.WithPanicHandler(func(topic event.Topic, r any) {
		app.logger.WithComponent("bus").Error("handler panic on %s: %v", topic, r)
	}))
	app.sched = task.NewScheduler(task.WithPanicHandler(func(r any) {
		app.logger.WithComponent("scheduler").Error("task panic: %v", r)
	}))

	app.client, err = godbolt.NewClient(cfg.ServiceURL, godbolt.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return &InitError{Component: "service client", Err: err}
	}
	app.controller = correlate.NewController(app.bus)

	if app.opts.File != "" {
		app.doc, err = LoadDocument(app.opts.File)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
	} else {
		app.doc = NewScratchDocument()
	}

	app.logger.Info("bootstrap complete: service=%s file=%s", cfg.ServiceURL, app.doc.Name)
	return nil
}

// SetScreen attaches the terminal surface and builds everything that
// depends on it.
func (app *Application) SetScreen(screen tcell.Screen) error {
	if app.ui != nil {
		return errors.New("screen already attached")
	}
	app.ui = ui.NewWithScreen(screen, app.bus, app.cfg.HighlightStyle)

	notify := &statusNotifier{ui: app.ui, logger: app.logger.WithComponent("flow")}
	app.orch = orchestrate.New(
		app.sched,
		app.client,
		&uiPrompter{ui: app.ui},
		app.ui,
		app.controller,
		notify,
		orchestrate.Options{
			LiveCorrelation: app.cfg.LiveCorrelation,
			UserArguments:   app.cfg.UserArguments,
			IntelSyntax:     app.cfg.IntelSyntax,
			RequestTimeout:  app.cfg.RequestTimeout,
		},
	)
	app.bindHandlers()
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config { return app.cfg }

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return NullLogger
	}
	return app.logger
}

// Run drives the application until quit or context cancellation. It
// initializes the screen, shows the document, and runs the scheduler
// loop on the calling goroutine.
func (app *Application) Run(ctx context.Context) error {
	if app.ui == nil {
		return ErrNoScreen
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.cancel = cancel

	if err := app.ui.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.ui.Fini()

	app.ui.SourcePane().ReplaceContents(app.doc.Lines)
	app.ui.SetStatus(fmt.Sprintf("%s | c:compile f:format v:select tab:switch q:quit", app.doc.Name), false)
	app.ui.StartEventPump(app.sched.Post)

	app.logger.Info("running")
	err := app.sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown releases resources. Safe to call multiple times and on
// every exit path.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		if app.cancel != nil {
			app.cancel()
		}
		if stats := app.sched.Stats(); stats.Panics > 0 {
			app.logger.Warn("%d recovered panics this session", stats.Panics)
		}
		if app.logFile != nil {
			app.logger.Info("shutdown")
			_ = app.logFile.Close()
		}
	})
}
