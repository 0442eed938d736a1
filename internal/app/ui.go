package app

import (
	"time"

	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/tui"
)

// draw clears the screen and redraws all components.
func (a *App) draw() {
	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	logger.DebugTagf("draw", "draw: Screen Size (%d x %d), StatusBarHeight: %d",
		width, height, a.cfg.Editor.StatusBarHeight)

	a.tuiManager.Clear()
	tui.DrawBuffer(a.tuiManager, a.session, activeTheme)
	a.statusBar.Draw(screen, width, height)
	tui.DrawCursor(a.tuiManager, a.session)
	a.tuiManager.Show()
}

// setStatusMessage shows a temporary message and schedules the redraw that
// clears it. A newer message postpones that redraw.
func (a *App) setStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.messageExpiry.Debounce(config.MessageTimeout+10*time.Millisecond, a.requestRedraw)
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
