// Package ui draws the field control panel and the heads-up display.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme defines UI colors and sizing.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	ErrorColor    rl.Color
	OKColor       rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FieldHeight   int32
	FontSize      int32
	HeaderFont    int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Color{R: 230, G: 230, B: 230, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.LightGray,
		ErrorColor:    rl.Color{R: 230, G: 110, B: 110, A: 255},
		OKColor:       rl.Color{R: 110, G: 200, B: 120, A: 255},
		Padding:       10,
		LineHeight:    18,
		LabelWidth:    80,
		FieldHeight:   26,
		FontSize:      14,
		HeaderFont:    18,
	}
}
