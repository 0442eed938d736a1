package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(width, height)
	return sim
}

func lastRow(sim tcell.SimulationScreen) string {
	width, height := sim.Size()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := sim.GetContent(x, height-1)
		sb.WriteRune(r)
	}
	return sb.String()
}

func newBar() *StatusBar {
	bar := New(ConfigFromTheme(theme.DevComfortDark, time.Second))
	bar.SetFileInfo("main.py", true)
	bar.SetCursorInfo(types.Position{Line: 4, Col: 2})
	bar.SetLanguage("Python")
	bar.SetLineCount(10)
	return bar
}

func TestDrawDefaultText(t *testing.T) {
	sim := newScreen(t, 50, 3)
	bar := newBar()
	bar.Draw(sim, 50, 3)

	want := "main.py [Modified]         Python  Ln 5/10, Col 3 "
	if got := lastRow(sim); got != want {
		t.Errorf("status row = %q, want %q", got, want)
	}

	cfg := ConfigFromTheme(theme.DevComfortDark, time.Second)
	if _, _, style, _ := sim.GetContent(0, 2); style != cfg.StyleDefault {
		t.Errorf("file name style = %v", style)
	}
	if _, _, style, _ := sim.GetContent(9, 2); style != cfg.StyleModified {
		t.Errorf("modified indicator style = %v", style)
	}
}

func TestDrawNarrowScreen(t *testing.T) {
	sim := newScreen(t, 10, 1)
	newBar().Draw(sim, 10, 1)
	if got := lastRow(sim); got != "main.py [M" {
		t.Errorf("narrow status row = %q", got)
	}
}

func TestTemporaryMessageExpires(t *testing.T) {
	sim := newScreen(t, 50, 2)
	bar := newBar()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bar.now = func() time.Time { return clock }

	bar.SetTemporaryMessage("Copied line %d", 5)
	bar.Draw(sim, 50, 2)
	if got := lastRow(sim); !strings.HasPrefix(got, "Copied line 5 ") || strings.Contains(got, "Ln ") {
		t.Errorf("message row = %q", got)
	}

	clock = clock.Add(2 * time.Second)
	bar.Draw(sim, 50, 2)
	if got := lastRow(sim); !strings.HasPrefix(got, "main.py") {
		t.Errorf("row after timeout = %q", got)
	}

	bar.SetTemporaryMessage("again")
	bar.ResetTemporaryMessage()
	bar.Draw(sim, 50, 2)
	if got := lastRow(sim); !strings.HasPrefix(got, "main.py") {
		t.Errorf("row after reset = %q", got)
	}
}

func TestNoNameAndDefaultLanguage(t *testing.T) {
	sim := newScreen(t, 40, 1)
	bar := New(DefaultConfig())
	bar.SetLineCount(1)
	bar.Draw(sim, 40, 1)
	got := lastRow(sim)
	if !strings.HasPrefix(got, "[No Name]") || !strings.HasSuffix(got, "Text  Ln 1/1, Col 1 ") {
		t.Errorf("status row = %q", got)
	}
}

func TestModeAndPrompt(t *testing.T) {
	sim := newScreen(t, 60, 1)
	bar := newBar()
	bar.SetMode("INSERT")
	bar.Draw(sim, 60, 1)
	if got := lastRow(sim); !strings.HasSuffix(got, "-- INSERT --  Python  Ln 5/10, Col 3 ") {
		t.Errorf("status row with mode = %q", got)
	}

	bar.SetPrompt("/needle")
	bar.SetTemporaryMessage("ignored while prompting")
	bar.Draw(sim, 60, 1)
	if got := lastRow(sim); strings.TrimRight(got, " ") != "/needle" {
		t.Errorf("prompt row = %q", got)
	}

	bar.SetPrompt("")
	bar.ResetTemporaryMessage()
	bar.SetMode("")
	bar.Draw(sim, 60, 1)
	if got := lastRow(sim); !strings.HasPrefix(got, "main.py [Modified]") || strings.Contains(got, "INSERT") {
		t.Errorf("row after clearing prompt and mode = %q", got)
	}
}
