// internal/event/event.go
package event

import "github.com/bethropolis/tidemark/internal/types"

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Line store events
	TypeLinesChanged // Fired after SetText/ReplaceRange with the affected line range
	TypeBufferLoaded // Fired after a file's text was handed to the store

	// View events
	TypeCursorMoved     // Fired when the cursor line or column changes
	TypeViewportChanged // Fired on scroll or resize

	// Style events
	TypeThemeChanged  // Fired when the active style sheet changes
	TypeEngineChanged // Fired when the highlight rule set is swapped

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeUnknown:         "unknown",
	TypeLinesChanged:    "lines-changed",
	TypeBufferLoaded:    "buffer-loaded",
	TypeCursorMoved:     "cursor-moved",
	TypeViewportChanged: "viewport-changed",
	TypeThemeChanged:    "theme-changed",
	TypeEngineChanged:   "engine-changed",
	TypeAppReady:        "app-ready",
	TypeAppQuit:         "app-quit",
}

// String returns the event type name used in logs.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// LinesChangedData carries the store change.
type LinesChangedData struct {
	Change    types.LineChange
	LineCount int // line count after the change
}

// BufferLoadedData contains info about the loaded file.
type BufferLoadedData struct {
	FilePath string
	Language string
}

// CursorMovedData contains the old and new cursor positions.
type CursorMovedData struct {
	OldPosition types.Position
	NewPosition types.Position
}

// ViewportChangedData describes the visible line window.
type ViewportChangedData struct {
	Top    int // first visible line
	Height int // number of text rows
}

// ThemeChangedData names the newly active theme.
type ThemeChangedData struct {
	Name string
}

// EngineChangedData names the language whose rules are now active.
type EngineChangedData struct {
	Language string
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
