package tui

import (
	"strings"
	"testing"
)

func TestNewCanvas(t *testing.T) {
	c := NewCanvas(80, 24)

	if c.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", c.Width())
	}
	if c.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", c.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if c.Get(x, y) != ' ' {
				t.Errorf("New canvas should be filled with spaces, got %q at (%d, %d)", c.Get(x, y), x, y)
			}
		}
	}
}

func TestCanvasSetGet(t *testing.T) {
	c := NewCanvas(10, 10)

	c.Set(5, 5, 'X', ColorCyan)
	if c.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", c.Get(5, 5))
	}

	// Out of bounds should be silent
	c.Set(-1, 0, 'A', ColorDefault)  // Should not panic
	c.Set(100, 0, 'A', ColorDefault) // Should not panic
	c.Set(0, -1, 'A', ColorDefault)  // Should not panic
	c.Set(0, 100, 'A', ColorDefault) // Should not panic

	// Out of bounds get should return space
	if c.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if c.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(10, 10)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c.Set(x, y, 'X', ColorRed)
		}
	}

	c.Clear()

	// Should all be spaces now
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c.Get(x, y) != ' ' {
				t.Errorf("After Clear, expected space at (%d, %d), got %q", x, y, c.Get(x, y))
			}
		}
	}
}

func TestCanvasDrawText(t *testing.T) {
	c := NewCanvas(20, 5)
	c.DrawText(2, 1, "Hello", ColorDefault)

	expected := "Hello"
	for i, ch := range expected {
		if c.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, c.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	c.DrawText(18, 0, "Hello", ColorDefault) // Only "He" should fit
	if c.Get(18, 0) != 'H' || c.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestCanvasDrawTextCentered(t *testing.T) {
	c := NewCanvas(20, 5)
	c.DrawTextCentered(2, "Hi", ColorDefault)

	// "Hi" is 2 chars, centered in 20 chars should start at position 9
	x := (20 - 2) / 2
	if c.Get(x, 2) != 'H' || c.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestCanvasDrawBox(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawBox(1, 1, 5, 4, ColorGray)

	// Check corners
	if c.Get(1, 1) != '┌' {
		t.Errorf("Top-left corner should be '┌', got %q", c.Get(1, 1))
	}
	if c.Get(5, 1) != '┐' {
		t.Errorf("Top-right corner should be '┐', got %q", c.Get(5, 1))
	}
	if c.Get(1, 4) != '└' {
		t.Errorf("Bottom-left corner should be '└', got %q", c.Get(1, 4))
	}
	if c.Get(5, 4) != '┘' {
		t.Errorf("Bottom-right corner should be '┘', got %q", c.Get(5, 4))
	}

	// Check horizontal edges
	for x := 2; x < 5; x++ {
		if c.Get(x, 1) != '─' {
			t.Errorf("Top edge should be '─' at x=%d, got %q", x, c.Get(x, 1))
		}
		if c.Get(x, 4) != '─' {
			t.Errorf("Bottom edge should be '─' at x=%d, got %q", x, c.Get(x, 4))
		}
	}

	// Check vertical edges
	for y := 2; y < 4; y++ {
		if c.Get(1, y) != '│' {
			t.Errorf("Left edge should be '│' at y=%d, got %q", y, c.Get(1, y))
		}
		if c.Get(5, y) != '│' {
			t.Errorf("Right edge should be '│' at y=%d, got %q", y, c.Get(5, y))
		}
	}

	// Degenerate boxes are ignored
	c.Clear()
	c.DrawBox(0, 0, 1, 5, ColorGray)
	if c.Get(0, 0) != ' ' {
		t.Error("A box narrower than 2 cells should not draw")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawText(0, 0, "AAAAA", ColorDefault)
	c.DrawText(0, 1, "BBBBB", ColorRed)
	c.DrawText(0, 2, "CCCCC", ColorCyan)

	result := c.String()
	expected := "AAAAA\nBBBBB\nCCCCC"

	if result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(6, 2)
	c.DrawText(0, 0, "ab", ColorYellow)
	c.DrawText(2, 0, "cd", ColorYellow)

	out := c.Render()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Render() should emit one newline for two rows, got %q", out)
	}
	// Same-color neighbors render as a single run
	if !strings.Contains(out, "abcd") {
		t.Errorf("Render() should group same-color cells, got %q", out)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawText(0, 0, "Hello", ColorDefault)

	c.Resize(8, 4)
	if c.Width() != 8 || c.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", c.Width(), c.Height())
	}

	// The canvas is a per-frame buffer: a resize clears it
	if c.Get(0, 0) != ' ' {
		t.Errorf("Resize should clear content, got %q at (0, 0)", c.Get(0, 0))
	}

	// Same-size resize is a no-op
	c.DrawText(0, 0, "Hi", ColorDefault)
	c.Resize(8, 4)
	if c.Get(0, 0) != 'H' {
		t.Error("Resize to the same dimensions should keep content")
	}
}
