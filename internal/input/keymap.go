// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to viewer actions.
type Keymap map[tcell.Key]Action        // For special keys (Arrows, PgUp, etc.)
type RuneKeymap map[rune]Action         // For plain rune bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell key events into actions.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Modifier Keys ---
	// Ctrl+E / Ctrl+Y scroll like vi; tcell reports them as KeyCtrlE / KeyCtrlY.
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlE] = ActionScrollDown
	ctrlMap[tcell.KeyCtrlY] = ActionScrollUp
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['y'] = ActionCopyLine
	p.runeKeymap['t'] = ActionNextTheme
	p.runeKeymap['k'] = ActionMoveUp
	p.runeKeymap['j'] = ActionMoveDown
	p.runeKeymap['h'] = ActionMoveLeft
	p.runeKeymap['l'] = ActionMoveRight
	p.runeKeymap['i'] = ActionEnterInsertMode
	p.runeKeymap['x'] = ActionDeleteCharForward
	p.runeKeymap['d'] = ActionDeleteLine
	p.runeKeymap['/'] = ActionFind
	p.runeKeymap['n'] = ActionFindNext
	p.runeKeymap['N'] = ActionFindPrevious
	p.runeKeymap['r'] = ActionReplace
}

// Bind maps a plain rune to an action, replacing any existing binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) Action {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Check Modifier + Key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return action
		}
	}
	// Keys like tcell.KeyCtrlE already imply Ctrl; terminals may or may not set the modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return action
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift { // Allow Shift with arrows etc.
		if action, ok := p.keymap[key]; ok {
			return action
		}
	}

	// 3. Check Rune mappings
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[ev.Rune()]; ok {
			return action
		}
	}

	// 4. No mapping found
	return ActionUnknown
}

// ProcessTextEvent decodes a key typed into the buffer or a prompt: runes are
// inserted, Enter, Backspace and Delete edit, Esc cancels. Cursor keys and
// Ctrl bindings keep their normal meaning.
func (p *InputProcessor) ProcessTextEvent(ev *tcell.EventKey) ActionEvent {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return ActionEvent{Action: ActionUnknown}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	case tcell.KeyTab:
		return ActionEvent{Action: ActionInsertRune, Rune: '\t'}
	case tcell.KeyEnter:
		return ActionEvent{Action: ActionInsertNewLine}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionEvent{Action: ActionDeleteCharBackward}
	case tcell.KeyDelete:
		return ActionEvent{Action: ActionDeleteCharForward}
	case tcell.KeyEscape:
		return ActionEvent{Action: ActionCancel}
	}

	action := p.ProcessEvent(ev)
	if action == ActionQuit && ev.Key() != tcell.KeyCtrlC {
		action = ActionUnknown
	}
	return ActionEvent{Action: action}
}
