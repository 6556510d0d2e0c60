package app

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/config"
	"github.com/kk-code-lab/some/internal/highlight"
	"github.com/kk-code-lab/some/internal/keymap"
	"github.com/kk-code-lab/some/internal/logging"
	statepkg "github.com/kk-code-lab/some/internal/state"
	inputui "github.com/kk-code-lab/some/internal/ui/input"
	renderui "github.com/kk-code-lab/some/internal/ui/render"
	"github.com/kk-code-lab/some/internal/vcs"
	"github.com/kk-code-lab/some/internal/watch"
)

// Options describes a pager session.
type Options struct {
	Buffers  []*buffer.Buffer
	Settings config.Config

	// StartLine is 1-based; 0 leaves the view at the top.
	StartLine int
	Pattern   string
	Follow    bool

	Clipboard statepkg.Clipboard
	Logger    zerolog.Logger
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	watcher    *watch.Watcher
	log        zerolog.Logger
	mouse      bool
	shouldQuit bool
}

// NewApplication takes over the terminal and prepares a session.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	app, err := newApplication(ctx, screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(ctx context.Context, screen tcell.Screen, opts Options) (*Application, error) {
	log := opts.Logger
	settings := opts.Settings.General

	state, err := statepkg.NewAppState(opts.Buffers, statepkg.Options{
		LineNumbers: settings.LineNumbers,
		Wrap:        settings.Wrap,
		SmartCase:   settings.SmartCase,
	})
	if err != nil {
		return nil, err
	}
	if settings.Mouse {
		screen.EnableMouse()
	}
	w, h := screen.Size()
	state.Resize(w, h)

	annotateChanges(ctx, opts.Buffers, logging.Component("vcs"))

	actionCh := make(chan statepkg.Action, 16)
	inputHandler := inputui.NewInputHandler(actionCh, buildKeymap(opts.Settings, log))
	inputHandler.SetState(state)

	theme := renderui.NewColorTheme(opts.Settings.Colors)
	if settings.Syntax && !highlight.ThemeExists(settings.Theme) {
		log.Warn().Str("theme", settings.Theme).Msg("unknown theme, using fallback")
	}
	highlighter := highlight.New(theme.HighlightOptions(settings.Theme, settings.Syntax))

	app := &Application{
		screen:   screen,
		state:    state,
		reducer:  statepkg.NewStateReducer(opts.Clipboard),
		renderer: renderui.NewRenderer(screen, theme, highlighter, settings.TabWidth),
		input:    inputHandler,
		actionCh: actionCh,
		log:      log,
		mouse:    settings.Mouse,
	}
	app.watcher = app.startWatcher()

	if opts.StartLine > 0 {
		state.GotoAbsolute(opts.StartLine - 1)
	}
	if opts.Pattern != "" {
		state.CommitSearch(opts.Pattern, true)
	}
	if opts.Follow {
		state.EnterFollow()
	}
	return app, nil
}

// buildKeymap applies the configured key overrides, reporting the ones
// that could not be used.
func buildKeymap(cfg config.Config, log zerolog.Logger) *keymap.Table {
	keys := keymap.Default()
	overrides, unknown := cfg.KeyOverrides()
	for _, name := range unknown {
		log.Warn().Str("action", name).Msg("unknown action in [keys]")
	}
	for _, rejected := range keys.ApplyOverrides(overrides) {
		log.Warn().Str("binding", rejected).Msg("invalid key binding ignored")
	}
	return keys
}

func annotateChanges(ctx context.Context, bufs []*buffer.Buffer, log zerolog.Logger) {
	for _, buf := range bufs {
		if buf.Path == "" || buf.IsDiff || buf.IsBinary() {
			continue
		}
		changes, err := vcs.Changes(ctx, buf.Path)
		if err != nil {
			log.Debug().Err(err).Str("path", buf.Path).Msg("no version control changes")
			continue
		}
		buf.Changes = changes
	}
}

func (app *Application) startWatcher() *watch.Watcher {
	var paths []string
	for _, buf := range app.state.Buffers {
		if buf.Reloadable() {
			paths = append(paths, buf.Path)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	w, err := watch.New(paths, logging.Component("watch"))
	if err != nil {
		app.log.Warn().Err(err).Msg("file watching disabled")
		return nil
	}
	return w
}

// Close cleans up resources.
func (app *Application) Close() error {
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	for _, buf := range app.state.Buffers {
		if cerr := buf.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	app.screen.Fini()
	return err
}
