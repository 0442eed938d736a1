package app

import (
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/input"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeInsert
	ModePrompt
)

// promptKind says what Enter does with the prompt text.
type promptKind int

const (
	promptFind promptKind = iota
	promptReplace
)

var promptPrefix = map[promptKind]string{
	promptFind:    "/",
	promptReplace: ":s",
}

// Mode returns the current input mode.
func (a *App) Mode() InputMode {
	return a.mode
}

// setMode switches the input mode and the status bar label.
func (a *App) setMode(mode InputMode) {
	a.mode = mode
	switch mode {
	case ModeInsert:
		a.statusBar.SetMode("INSERT")
	default:
		a.statusBar.SetMode("")
	}
	if mode != ModePrompt {
		a.promptText = ""
		a.statusBar.SetPrompt("")
	}
	logger.DebugTagf("input", "App: mode %d", mode)
}

// handleInsertKey types into the buffer; Esc returns to normal mode.
func (a *App) handleInsertKey(ev *tcell.EventKey) bool {
	actionEvent := a.input.ProcessTextEvent(ev)
	switch actionEvent.Action {
	case input.ActionCancel:
		a.setMode(ModeNormal)
		return true
	case input.ActionInsertRune:
		a.edit(func() error { return a.session.InsertRune(actionEvent.Rune) })
		return true
	case input.ActionInsertNewLine:
		a.edit(a.session.InsertNewline)
		return true
	case input.ActionDeleteCharBackward:
		a.edit(a.session.DeleteBackward)
		return true
	}
	return a.runAction(actionEvent.Action)
}

// openPrompt starts collecting a search or replace command in the status bar.
func (a *App) openPrompt(kind promptKind) {
	a.setMode(ModePrompt)
	a.promptKind = kind
	a.promptText = ""
	a.statusBar.SetPrompt(promptPrefix[kind])
}

// handlePromptKey edits the prompt text. Enter runs it, Esc drops it and
// Backspace on an empty prompt closes it.
func (a *App) handlePromptKey(ev *tcell.EventKey) bool {
	actionEvent := a.input.ProcessTextEvent(ev)
	switch actionEvent.Action {
	case input.ActionInsertRune:
		a.promptText += string(actionEvent.Rune)
	case input.ActionDeleteCharBackward:
		if a.promptText == "" {
			a.setMode(ModeNormal)
			return true
		}
		_, size := utf8.DecodeLastRuneInString(a.promptText)
		a.promptText = a.promptText[:len(a.promptText)-size]
	case input.ActionInsertNewLine:
		text, kind := a.promptText, a.promptKind
		a.setMode(ModeNormal)
		a.executePrompt(kind, text)
		return true
	case input.ActionCancel:
		a.setMode(ModeNormal)
		return true
	case input.ActionQuit:
		a.requestQuit()
		return false
	default:
		return false
	}
	a.statusBar.SetPrompt(promptPrefix[a.promptKind] + a.promptText)
	return true
}

// executePrompt runs a finished prompt.
func (a *App) executePrompt(kind promptKind, text string) {
	switch kind {
	case promptFind:
		a.search(text)
	case promptReplace:
		a.replace(text)
	}
}
