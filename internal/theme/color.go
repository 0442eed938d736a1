package theme

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Backgrounds assumed when a theme leaves the terminal background in place.
var (
	assumedDarkBg  = colorful.Color{R: 0.12, G: 0.13, B: 0.15}
	assumedLightBg = colorful.Color{R: 1, G: 1, B: 1}
)

// toColorful converts an RGB or palette colour. ok is false for the terminal
// default and reset colours, which have no known value.
func toColorful(c tcell.Color) (colorful.Color, bool) {
	if c == tcell.ColorDefault || c == tcell.ColorReset {
		return colorful.Color{}, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return colorful.Color{}, false
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func backgroundOf(bg tcell.Color, dark bool) colorful.Color {
	if c, ok := toColorful(bg); ok {
		return c
	}
	if dark {
		return assumedDarkBg
	}
	return assumedLightBg
}

// shiftLightness moves c along the HCL lightness axis, keeping hue and chroma.
func shiftLightness(c colorful.Color, delta float64) colorful.Color {
	h, chroma, l := c.Hcl()
	l += delta
	if l > 1 {
		l = 1
	}
	if l < 0 {
		l = 0
	}
	return colorful.Hcl(h, chroma, l)
}

// lighten blends c towards white by amount (0 to 1).
func lighten(c tcell.Color, amount float64) tcell.Color {
	base, ok := toColorful(c)
	if !ok {
		return c
	}
	return fromColorful(base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, amount))
}

// currentLineColor picks a background slightly off the text background:
// lighter on dark themes, darker on light ones.
func currentLineColor(bg tcell.Color, dark bool) tcell.Color {
	base := backgroundOf(bg, dark)
	if dark {
		return fromColorful(shiftLightness(base, 0.06))
	}
	return fromColorful(shiftLightness(base, -0.05))
}

// dimColor returns a line-number colour halfway between text and background.
func dimColor(fg, bg tcell.Color, dark bool) tcell.Color {
	text, ok := toColorful(fg)
	if !ok {
		if dark {
			text = assumedLightBg
		} else {
			text = assumedDarkBg
		}
	}
	return fromColorful(text.BlendLab(backgroundOf(bg, dark), 0.5))
}
