// internal/app/app.go
package app

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/core"
	"github.com/bethropolis/tidemark/internal/core/find"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/input"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/statusbar"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/tui"
	"github.com/bethropolis/tidemark/internal/utils"
	"github.com/gdamore/tcell/v2"
)

// Options describe what the viewer opens.
type Options struct {
	FilePath string
	Language string       // Overrides detection by file extension when set
	Screen   tcell.Screen // Nil opens the terminal
}

// App encapsulates the core components and main loop of the viewer.
type App struct {
	cfg          *config.Config
	tuiManager   *tui.TUI
	store        *buffer.SliceStore
	session      *core.Session
	statusBar    *statusbar.StatusBar
	eventManager *event.Manager
	themeManager *theme.Manager
	input        *input.InputProcessor
	finder       *find.Manager
	filePath     string
	language     *lang.Language

	clipboardWrite func(string) error
	register       string // Last copied line
	messageExpiry  utils.Debouncer

	mode             InputMode
	promptKind       promptKind
	promptText       string
	forceQuitPending bool

	// Channels managed by the App
	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
}

// New loads the file, builds the highlighting session and opens the screen.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	language, err := DetectLanguage(opts.FilePath, opts.Language)
	if err != nil {
		return nil, err
	}

	eventManager := event.NewManager()
	store := buffer.NewSliceStore()
	store.SetEventManager(eventManager)
	if err := buffer.Load(store, opts.FilePath); err != nil {
		return nil, err
	}

	themeManager := theme.NewManager(cfg.ResolveThemesDir())
	if cfg.Theme != "" {
		if err := themeManager.SetTheme(cfg.Theme); err != nil {
			logger.Warnf("App: %v, keeping %s", err, themeManager.Current().Name)
		}
	}
	activeTheme := themeManager.Current()

	var tuiManager *tui.TUI
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen, activeTheme.GetStyle(theme.StyleDefault))
	} else {
		tuiManager, err = tui.New(activeTheme.GetStyle(theme.StyleDefault))
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		store:          store,
		statusBar:      statusbar.New(statusbar.ConfigFromTheme(activeTheme, config.MessageTimeout)),
		eventManager:   eventManager,
		themeManager:   themeManager,
		input:          input.NewInputProcessor(),
		finder:         find.NewManager(store),
		filePath:       opts.FilePath,
		language:       language,
		clipboardWrite: clipboard.WriteAll,
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
	}

	// Subscribe before the session exists so its first events reach the status bar.
	a.subscribeEvents()

	a.session, err = BuildSession(store, language, cfg, eventManager)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	eventManager.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{
		FilePath: opts.FilePath,
		Language: language.Name,
	})
	a.resize()
	return a, nil
}

// Run starts the application's event and drawing loop. It returns after a quit action.
func (a *App) Run() error {
	defer a.Close()

	events := make(chan tcell.Event)
	go a.eventLoop(events)

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.setStatusMessage("%s - i insert | / find | ^S save | t theme | q quit", config.AppName)
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			logger.Infof("Exiting application.")
			return nil
		case ev := <-events:
			if a.HandleEvent(ev) {
				a.requestRedraw()
			}
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// eventLoop forwards terminal events to the main loop until the screen closes.
func (a *App) eventLoop(events chan<- tcell.Event) {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-a.quit:
			return
		}
	}
}

// HandleEvent applies one terminal event and reports whether the screen needs a redraw.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		a.resize()
		return true
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return false
}

// resize gives the session the screen minus the status bar rows.
func (a *App) resize() {
	width, height := a.tuiManager.Size()
	a.session.SetViewSize(width, height-a.cfg.Editor.StatusBarHeight)
}

// requestQuit stops Run; safe to call more than once.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Close releases the session's parser and restores the terminal.
func (a *App) Close() {
	a.messageExpiry.Stop()
	a.session.Close()
	a.tuiManager.Close()
}

// Session returns the highlighting session shown by the viewer.
func (a *App) Session() *core.Session {
	return a.session
}
