package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	MarkedFg    tcell.Color // rows in the selection set
	DirectoryFg tcell.Color
	FileFg      tcell.Color
	MetaFg      tcell.Color // size, age, type columns
	MatchFg     tcell.Color
	StarFg      tcell.Color
	SharedFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	ErrorFg     tcell.Color
	MenuBg      tcell.Color
	MenuFg      tcell.Color
	MenuActive  tcell.Color
	DangerFg    tcell.Color
	PanelBg     tcell.Color
	PanelFg     tcell.Color
	ProgressFg  tcell.Color
	FailedFg    tcell.Color
	DoneFg      tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		MarkedFg:    tcell.Color214,
		DirectoryFg: tcell.Color33,
		FileFg:      tcell.ColorDefault,
		MetaFg:      tcell.ColorLightSlateGray,
		MatchFg:     tcell.Color208,
		StarFg:      tcell.Color220,
		SharedFg:    tcell.Color44,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
		MenuBg:      tcell.Color236,
		MenuFg:      tcell.Color252,
		MenuActive:  tcell.Color33,
		DangerFg:    tcell.Color203,
		PanelBg:     tcell.Color234,
		PanelFg:     tcell.Color252,
		ProgressFg:  tcell.Color39,
		FailedFg:    tcell.Color203,
		DoneFg:      tcell.Color114,
	}
}
