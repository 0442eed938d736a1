package app

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/core/find"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/input"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// handleKey runs the action bound to ev in the current mode and reports
// whether anything changed.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch a.mode {
	case ModeInsert:
		return a.handleInsertKey(ev)
	case ModePrompt:
		return a.handlePromptKey(ev)
	}
	action := a.input.ProcessEvent(ev)
	logger.DebugTagf("input", "Key %v -> %v", ev.Name(), action)
	return a.runAction(action)
}

// runAction performs a normal mode action.
func (a *App) runAction(action input.Action) bool {
	if action != input.ActionQuit && action != input.ActionUnknown {
		a.forceQuitPending = false
	}

	switch action {
	case input.ActionQuit:
		return a.quitAction()
	case input.ActionMoveUp:
		a.session.MoveCursor(-1, 0)
	case input.ActionMoveDown:
		a.session.MoveCursor(1, 0)
	case input.ActionMoveLeft:
		a.session.MoveCursor(0, -1)
	case input.ActionMoveRight:
		a.session.MoveCursor(0, 1)
	case input.ActionMovePageUp:
		a.session.PageMove(-1)
	case input.ActionMovePageDown:
		a.session.PageMove(1)
	case input.ActionMoveHome:
		a.session.Home()
	case input.ActionMoveEnd:
		a.session.End()
	case input.ActionScrollUp:
		a.session.ScrollBy(-1)
	case input.ActionScrollDown:
		a.session.ScrollBy(1)
	case input.ActionEnterInsertMode:
		a.setMode(ModeInsert)
	case input.ActionDeleteCharForward:
		a.edit(a.session.DeleteForward)
	case input.ActionDeleteLine:
		a.edit(a.session.DeleteLine)
	case input.ActionSave:
		a.save()
	case input.ActionFind:
		a.openPrompt(promptFind)
	case input.ActionFindNext:
		a.findNext(true)
	case input.ActionFindPrevious:
		a.findNext(false)
	case input.ActionReplace:
		a.openPrompt(promptReplace)
	case input.ActionCopyLine:
		a.copyLine()
	case input.ActionNextTheme:
		a.nextTheme()
	default:
		return false
	}
	return true
}

// quitAction quits, asking for a second quit when the buffer has unsaved changes.
func (a *App) quitAction() bool {
	if a.store.Modified() && !a.forceQuitPending {
		a.forceQuitPending = true
		a.setStatusMessage("Unsaved changes! Quit again to discard them, Ctrl+S to save")
		return true
	}
	a.requestQuit()
	return false
}

// edit runs one session edit and reports a failure in the status bar.
func (a *App) edit(fn func() error) {
	if err := fn(); err != nil {
		a.setStatusMessage("Edit failed: %v", err)
	}
}

// save writes the buffer back to its file.
func (a *App) save() {
	if err := buffer.Save(a.store, a.filePath); err != nil {
		logger.Errorf("App: save failed: %v", err)
		a.setStatusMessage("Save failed: %v", err)
		return
	}
	a.statusBar.SetFileInfo(a.filePath, a.store.Modified())
	a.setStatusMessage("Saved %s (%d lines)", a.filePath, a.store.LineCount())
}

// search makes term the active search and jumps to its first match from the cursor.
func (a *App) search(term string) {
	if err := a.finder.SetTerm(term); err != nil {
		a.setStatusMessage("%v", err)
		return
	}
	if term == "" {
		return
	}
	a.findNext(true)
}

// findNext moves the cursor to the next or previous match of the active search.
func (a *App) findNext(forward bool) {
	term := a.finder.Term()
	if term == "" {
		a.setStatusMessage("No previous search")
		return
	}
	match, ok := a.finder.FindNext(a.session.Cursor, forward)
	if !ok {
		a.setStatusMessage("Pattern not found: %s", term)
		return
	}
	a.session.SetCursor(match.Start)
	a.setStatusMessage("/%s  %d matches", term, len(a.finder.FindAll()))
}

// replace runs a /pattern/replacement/[g] command.
func (a *App) replace(command string) {
	pattern, replacement, global, err := find.ParseSubstituteCommand(command)
	if err != nil {
		a.setStatusMessage("Replace: %v", err)
		return
	}
	count, at, err := a.finder.Replace(pattern, replacement, global, a.session.Cursor)
	if err != nil {
		a.setStatusMessage("Replace: %v", err)
		return
	}
	if count == 0 {
		a.setStatusMessage("Pattern not found: %s", pattern)
		return
	}
	a.session.SetCursor(at)
	a.setStatusMessage("Replaced %d occurrence(s)", count)
}

// copyLine copies the cursor line to the system clipboard when enabled, and
// always keeps it in the internal register.
func (a *App) copyLine() {
	lineNum := a.session.Cursor.Line
	line, err := a.store.Line(lineNum)
	if err != nil {
		a.setStatusMessage("Copy failed: %v", err)
		return
	}
	a.register = line

	if a.cfg.Editor.SystemClipboard {
		if err := a.clipboardWrite(line); err != nil {
			logger.Warnf("App: clipboard write failed: %v", err)
			a.setStatusMessage("Clipboard unavailable, line %d kept internally", lineNum+1)
			return
		}
	}
	a.setStatusMessage("Copied line %d", lineNum+1)
}

// nextTheme activates the next loaded theme.
func (a *App) nextTheme() {
	th := a.themeManager.Next()
	a.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: th.Name})
	a.setStatusMessage("Theme: %s", th.Name)
}

// SetTheme activates a theme by name.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return fmt.Errorf("%w. Available: %s", err, strings.Join(a.themeManager.List(), ", "))
	}
	current := a.themeManager.Current()
	a.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: current.Name})
	a.setStatusMessage("Theme set to: %s", current.Name)
	return nil
}
