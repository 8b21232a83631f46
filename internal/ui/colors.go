package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/niagara/internal/reconcile"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262", "#E0245E")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	heart  lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
}

func NewPalette(t, s, e, w, h, heart string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		heart:  NewBold(heart),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold(t).Padding(0, 1).Underline(true),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// notification renders a toast line in the color of its level.
func (p *Palette) notification(n reconcile.Notification) string {
	text := n.Title
	if n.Description != "" {
		text += ": " + n.Description
	}
	switch n.Level {
	case reconcile.LevelSuccess:
		return p.ok.Render("✓ " + text)
	case reconcile.LevelError:
		return p.err.Render("✗ " + text)
	default:
		return p.warn.Render("• " + text)
	}
}
