package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/some/internal/state"
)

// inputWait bounds how long one tick waits for terminal input, so file
// changes and search progress show up without a key press.
const inputWait = 200 * time.Millisecond

// Run drives the session until the user quits.
func (app *Application) Run() {
	app.renderer.Render(app.state)

	eventChan := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	timer := time.NewTimer(inputWait)
	defer timer.Stop()

	for !app.shouldQuit {
		renderPending := app.drainWatcher()
		if app.drainSearch() {
			renderPending = true
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(inputWait)

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-timer.C:
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
		if renderPending && !app.shouldQuit {
			app.renderer.Render(app.state)
		}
	}
}

// drainWatcher turns every queued file event into a content change.
func (app *Application) drainWatcher() bool {
	if app.watcher == nil {
		return false
	}
	changed := false
	for {
		select {
		case ev, ok := <-app.watcher.Events():
			if !ok {
				app.watcher = nil
				return changed
			}
			if app.handleAction(statepkg.ContentChangedAction{Path: ev.Path}) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// drainSearch applies the background search reports that are ready,
// stopping at the first one that is not.
func (app *Application) drainSearch() bool {
	changed := false
	for {
		batches := app.state.SearchBatches()
		if batches == nil {
			return changed
		}
		select {
		case b, ok := <-batches:
			if !ok {
				app.state.SearchFinished()
				return true
			}
			app.handleAction(statepkg.SearchBatchAction{Batch: b})
			changed = true
		default:
			return changed
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize, *tcell.EventMouse:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.ResizeAction:
		app.screen.Sync()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.log.Warn().Err(err).Type("action", action).Msg("action failed")
	}
	if app.state.Quit {
		app.shouldQuit = true
	}
	return true
}
