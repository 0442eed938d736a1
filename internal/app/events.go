package app

import (
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/statusbar"
	"github.com/bethropolis/tidemark/internal/theme"
)

// subscribeEvents wires the status bar and screen to session events.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeCursorMoved, a.handleCursorMovedForStatus)
	a.eventManager.Subscribe(event.TypeLinesChanged, a.handleLinesChangedForStatus)
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoadedForStatus)
	a.eventManager.Subscribe(event.TypeEngineChanged, a.handleEngineChangedForStatus)
	a.eventManager.Subscribe(event.TypeThemeChanged, a.handleThemeChanged)
}

// handleCursorMovedForStatus updates the status bar based on cursor position
func (a *App) handleCursorMovedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.CursorMovedData); ok {
		a.statusBar.SetCursorInfo(data.NewPosition)
	}
	return false // Not consumed
}

// handleLinesChangedForStatus refreshes the line count and modified indicator.
func (a *App) handleLinesChangedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.LinesChangedData); ok {
		a.statusBar.SetLineCount(data.LineCount)
	}
	a.statusBar.SetFileInfo(a.filePath, a.store.Modified())
	return false
}

// handleBufferLoadedForStatus shows the loaded file and its language.
func (a *App) handleBufferLoadedForStatus(e event.Event) bool {
	data, ok := e.Data.(event.BufferLoadedData)
	if !ok {
		logger.Warnf("App: Received BufferLoaded event with unexpected data type: %T", e.Data)
		return false
	}
	a.statusBar.SetFileInfo(data.FilePath, a.store.Modified())
	a.statusBar.SetLineCount(a.store.LineCount())
	a.statusBar.SetLanguage(a.languageLabel(data.Language))
	a.requestRedraw()
	return false
}

// handleEngineChangedForStatus updates the language label after an engine swap.
func (a *App) handleEngineChangedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.EngineChangedData); ok {
		a.statusBar.SetLanguage(a.languageLabel(data.Language))
	}
	return false
}

// handleThemeChanged restyles the screen and the status bar.
func (a *App) handleThemeChanged(e event.Event) bool {
	data, ok := e.Data.(event.ThemeChangedData)
	if !ok {
		return false
	}
	th, found := a.themeManager.GetTheme(data.Name)
	if !found {
		logger.Warnf("App: theme changed to unknown theme %q", data.Name)
		return false
	}
	a.tuiManager.SetStyle(th.GetStyle(theme.StyleDefault))
	a.statusBar.SetConfig(statusbar.ConfigFromTheme(th, config.MessageTimeout))
	a.requestRedraw()
	return false
}

// languageLabel appends the engine to a language name for the status bar.
func (a *App) languageLabel(language string) string {
	if language == "" {
		return ""
	}
	if a.session != nil && a.session.UsingTreeSitter() {
		return language + " (tree-sitter)"
	}
	return language
}
