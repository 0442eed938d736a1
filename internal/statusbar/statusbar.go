// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleModified  tcell.Style // Style for the modified indicator
	StyleMessage   tcell.Style // Style for temporary messages
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleModified:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// ConfigFromTheme takes the status bar styles from a theme.
func ConfigFromTheme(th *theme.Theme, timeout time.Duration) Config {
	return Config{
		StyleDefault:   th.GetStyle(theme.StyleStatusBar),
		StyleModified:  th.GetStyle(theme.StyleStatusBarModified),
		StyleMessage:   th.GetStyle(theme.StyleStatusBarMessage),
		MessageTimeout: timeout,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields

	filePath   string
	cursorPos  types.Position
	isModified bool
	language   string
	lineCount  int
	mode       string // shown before the language, empty in normal mode
	prompt     string // replaces the whole line while input is being typed

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time

	now func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		now:    time.Now,
	}
}

// SetConfig replaces the styles and timeout, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetLanguage updates the language name shown, together with the engine in use.
func (sb *StatusBar) SetLanguage(language string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.language = language
}

// SetLineCount updates the total line count shown.
func (sb *StatusBar) SetLineCount(n int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.lineCount = n
}

// SetMode sets the input mode label, e.g. "INSERT". Empty hides it.
func (sb *StatusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetPrompt shows text in place of the status line until it is cleared with
// an empty string. It does not expire.
func (sb *StatusBar) SetPrompt(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = text
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// getDefaultDisplayText builds the left and right parts of the status line.
// Callers hold the lock.
func (sb *StatusBar) getDefaultDisplayText() (left, right string) {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	left = fPath
	if sb.isModified {
		left += " [Modified]"
	}

	language := sb.language
	if language == "" {
		language = "Text"
	}
	cursor := sb.cursorPos
	right = fmt.Sprintf("%s  Ln %d/%d, Col %d ", language, cursor.Line+1, sb.lineCount, cursor.Col+1)
	if sb.mode != "" {
		right = "-- " + sb.mode + " --  " + right
	}
	return left, right
}

// Draw renders the status bar onto the last row of the screen.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	isTempMsgActive := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	style := sb.config.StyleDefault
	var left, right string
	switch {
	case sb.prompt != "":
		left = sb.prompt
		style = sb.config.StyleMessage
	case isTempMsgActive:
		left = sb.tempMessage
		style = sb.config.StyleMessage
	default:
		left, right = sb.getDefaultDisplayText()
	}
	modified := sb.isModified && right != ""
	modifiedStyle := sb.config.StyleModified
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	rightWidth := uniseg.StringWidth(right)
	rightX := width - rightWidth
	leftEnd := drawText(screen, 0, y, width, left, style)
	if modified && leftEnd == uniseg.StringWidth(left) {
		// Recolour the indicator, which is the tail of the left part.
		indicator := " [Modified]"
		drawText(screen, leftEnd-uniseg.StringWidth(indicator), y, width, indicator, modifiedStyle)
	}
	if right != "" && rightX > leftEnd {
		drawText(screen, rightX, y, width, right, style)
	}
}

// drawText draws text from column x, stopping at maxX, and returns the column
// after the last drawn cluster.
func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > maxX {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += clusterWidth
	}
	return x
}
