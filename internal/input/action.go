// internal/input/action.go
package input

// Action represents an operation of the viewer.
type Action int

// Define the set of possible viewer actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit

	// --- Cursor Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line

	// --- Viewport ---
	ActionScrollUp   // Scroll one line without moving the cursor off screen
	ActionScrollDown // Scroll one line without moving the cursor off screen

	// --- Text Manipulation ---
	ActionEnterInsertMode
	ActionInsertRune    // Requires Rune argument
	ActionInsertNewLine // Enter
	ActionDeleteCharForward
	ActionDeleteCharBackward
	ActionDeleteLine
	ActionSave

	// --- Search ---
	ActionFind         // Open the search prompt
	ActionFindNext     // Repeat the last search forwards
	ActionFindPrevious // Repeat the last search backwards
	ActionReplace      // Open the /pattern/replacement/[g] prompt
	ActionCancel       // Esc while typing text or a prompt

	// --- Other ---
	ActionCopyLine  // Copy the cursor line
	ActionNextTheme // Cycle to the next loaded theme
)

// ActionEvent is a decoded key carrying the rune to insert, if any.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}

var actionNames = map[Action]string{
	ActionUnknown:            "unknown",
	ActionQuit:               "quit",
	ActionMoveUp:             "move-up",
	ActionMoveDown:           "move-down",
	ActionMoveLeft:           "move-left",
	ActionMoveRight:          "move-right",
	ActionMovePageUp:         "page-up",
	ActionMovePageDown:       "page-down",
	ActionMoveHome:           "home",
	ActionMoveEnd:            "end",
	ActionScrollUp:           "scroll-up",
	ActionScrollDown:         "scroll-down",
	ActionEnterInsertMode:    "insert-mode",
	ActionInsertRune:         "insert-rune",
	ActionInsertNewLine:      "insert-newline",
	ActionDeleteCharForward:  "delete-forward",
	ActionDeleteCharBackward: "delete-backward",
	ActionDeleteLine:         "delete-line",
	ActionSave:               "save",
	ActionFind:               "find",
	ActionFindNext:           "find-next",
	ActionFindPrevious:       "find-previous",
	ActionReplace:            "replace",
	ActionCancel:             "cancel",
	ActionCopyLine:           "copy-line",
	ActionNextTheme:          "next-theme",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
