// Package tui provides the Bubble Tea integration for the simulator.
// It holds the live fight viewer, which renders the bullet field in the
// terminal, and the browser for recorded fight history.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color represents a foreground color for a canvas cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for field elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorYellow
	ColorCyan
	ColorMagenta
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// colorStyles maps Color to lipgloss styles.
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault:      lipgloss.NewStyle(),
	ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Canvas is a 2D character buffer the viewer redraws every frame.
// It decouples field rendering from the terminal: drawing code works in
// cell coordinates and the platform turns the buffer into styled output.
type Canvas struct {
	width  int
	height int
	runes  [][]rune
	colors [][]Color
}

// NewCanvas creates a canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
	}
	c.allocate()
	c.Clear()
	return c
}

// allocate creates the underlying cell storage.
func (c *Canvas) allocate() {
	c.runes = make([][]rune, c.height)
	c.colors = make([][]Color, c.height)
	for y := range c.runes {
		c.runes[y] = make([]rune, c.width)
		c.colors[y] = make([]Color, c.width)
	}
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the canvas dimensions and clears it. Callers redraw a
// full frame after every resize, so no content survives.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear fills the entire canvas with spaces in the default color.
func (c *Canvas) Clear() {
	for y := range c.runes {
		for x := range c.runes[y] {
			c.runes[y][x] = ' '
			c.colors[y][x] = ColorDefault
		}
	}
}

// Set places a colored rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.runes[y][x] = r
	c.colors[y][x] = color
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.runes[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond canvas bounds are clipped.
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	for i, r := range text {
		c.Set(x+i, y, r, color)
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (c *Canvas) DrawTextCentered(y int, text string, color Color) {
	x := (c.width - len(text)) / 2
	c.DrawText(x, y, text, color)
}

// DrawBox draws a box outline using box-drawing characters.
func (c *Canvas) DrawBox(x, y, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}

	// Corners
	c.Set(x, y, '┌', color)
	c.Set(x+w-1, y, '┐', color)
	c.Set(x, y+h-1, '└', color)
	c.Set(x+w-1, y+h-1, '┘', color)

	// Horizontal edges
	for i := x + 1; i < x+w-1; i++ {
		c.Set(i, y, '─', color)
		c.Set(i, y+h-1, '─', color)
	}

	// Vertical edges
	for j := y + 1; j < y+h-1; j++ {
		c.Set(x, j, '│', color)
		c.Set(x+w-1, j, '│', color)
	}
}

// String converts the canvas to a plain string without styling.
// Each row is joined with newlines.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(string(c.runes[y]))
	}
	return sb.String()
}

// Render converts the canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (c *Canvas) Render() string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(c.width*c.height*2 + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < c.width {
			startColor := c.colors[y][x]

			var run strings.Builder
			for x < c.width && c.colors[y][x] == startColor {
				run.WriteRune(c.runes[y][x])
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
